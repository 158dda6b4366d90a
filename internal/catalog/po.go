package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/mdbook-i18n-helpers/internal/mderr"
)

// Write serializes c as a PO/POT file to w. The metadata entry is written
// first as the empty-msgid header message, followed by every other message
// in insertion order.
func Write(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, c.Metadata)
	for _, m := range c.Messages() {
		bw.WriteString("\n")
		writeMessage(bw, m)
	}
	return bw.Flush()
}

// WriteFile writes c to path, creating parent directories as needed.
func WriteFile(path string, c *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return mderr.New(mderr.IoError, "creating directory for catalog file "+path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return mderr.New(mderr.IoError, "creating catalog file "+path, err)
	}
	defer f.Close()
	if err := Write(f, c); err != nil {
		return mderr.New(mderr.IoError, "writing catalog file "+path, err)
	}
	return nil
}

func writeHeader(w *bufio.Writer, m CatalogMetadata) {
	w.WriteString("msgid \"\"\n")
	w.WriteString("msgstr \"\"\n")
	header := fmt.Sprintf(
		"\"Project-Id-Version: %s\\n\"\n"+
			"\"POT-Creation-Date: %s\\n\"\n"+
			"\"MIME-Version: %s\\n\"\n"+
			"\"Content-Type: %s\\n\"\n"+
			"\"Content-Transfer-Encoding: %s\\n\"\n",
		m.ProjectIDVersion, m.POTCreationDate, m.MimeVersion, m.ContentType, m.ContentTransferEncoding)
	w.WriteString(header)
	if m.Language != "" {
		w.WriteString(fmt.Sprintf("\"Language: %s\\n\"\n", m.Language))
	}
}

func writeMessage(w *bufio.Writer, m *Message) {
	if m.Comment != "" {
		for _, line := range strings.Split(m.Comment, "\n") {
			w.WriteString("#. " + line + "\n")
		}
	}
	if m.Source != "" {
		for _, line := range strings.Split(m.Source, "\n") {
			w.WriteString("#: " + line + "\n")
		}
	}
	if m.IsFuzzy() {
		w.WriteString("#, fuzzy\n")
	}
	writeQuoted(w, "msgid", m.MsgID)
	writeQuoted(w, "msgstr", m.MsgStr)
}

func writeQuoted(w *bufio.Writer, keyword, value string) {
	lines := strings.Split(value, "\n")
	if len(lines) <= 1 {
		w.WriteString(keyword + " " + quote(value) + "\n")
		return
	}
	w.WriteString(keyword + " \"\"\n")
	for i, line := range lines {
		suffix := "\n"
		if i == len(lines)-1 {
			suffix = ""
		}
		w.WriteString(quote(line+suffix) + "\n")
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("malformed quoted string: %q", s)
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// Parse reads a PO/POT file from r into a Catalog.
func Parse(r io.Reader) (*Catalog, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	c := New(CatalogMetadata{})
	var (
		comment  []string
		source   []string
		fuzzy    bool
		msgid    *string
		msgstr   *string
		building *string // points at msgid or msgstr while accumulating continuation lines
	)

	flush := func() error {
		if msgid == nil {
			return nil
		}
		id := *msgid
		str := ""
		if msgstr != nil {
			str = *msgstr
		}
		if id == "" {
			meta, err := parseHeader(str)
			if err != nil {
				return mderr.New(mderr.CatalogError, "parsing catalog header", err)
			}
			c.Metadata = meta
		} else {
			msg := Message{MsgID: id, MsgStr: str, Source: strings.Join(source, "\n"), Comment: strings.Join(comment, "\n")}
			if fuzzy {
				msg.SetFuzzy(true)
			}
			c.AppendOrUpdate(msg)
		}
		comment, source, fuzzy, msgid, msgstr, building = nil, nil, false, nil, nil, nil
		return nil
	}

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if err := flush(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(trimmed, "#."):
			comment = append(comment, strings.TrimSpace(strings.TrimPrefix(trimmed, "#.")))
		case strings.HasPrefix(trimmed, "#:"):
			source = append(source, strings.TrimSpace(strings.TrimPrefix(trimmed, "#:")))
		case strings.HasPrefix(trimmed, "#,"):
			for _, flag := range strings.Split(strings.TrimSpace(strings.TrimPrefix(trimmed, "#,")), ",") {
				if strings.TrimSpace(flag) == "fuzzy" {
					fuzzy = true
				}
			}
		case strings.HasPrefix(trimmed, "#"):
			// other comment kinds (#| previous, #~ obsolete): ignored
		case strings.HasPrefix(trimmed, "msgid "):
			s, err := unquote(strings.TrimPrefix(trimmed, "msgid "))
			if err != nil {
				return nil, mderr.New(mderr.CatalogError, "parsing msgid", err)
			}
			msgid = &s
			building = msgid
		case strings.HasPrefix(trimmed, "msgstr "):
			s, err := unquote(strings.TrimPrefix(trimmed, "msgstr "))
			if err != nil {
				return nil, mderr.New(mderr.CatalogError, "parsing msgstr", err)
			}
			msgstr = &s
			building = msgstr
		case strings.HasPrefix(trimmed, "\""):
			if building == nil {
				continue
			}
			s, err := unquote(trimmed)
			if err != nil {
				return nil, mderr.New(mderr.CatalogError, "parsing continuation string", err)
			}
			*building += s
		default:
			// unrecognized line (e.g. msgctxt): ignored, not part of this core's model
		}
	}
	if err := sc.Err(); err != nil {
		return nil, mderr.New(mderr.IoError, "reading catalog", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseFile reads and parses the PO/POT file at path.
func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mderr.New(mderr.IoError, "opening catalog file "+path, err)
	}
	defer f.Close()
	return Parse(f)
}

func parseHeader(body string) (CatalogMetadata, error) {
	m := CatalogMetadata{MimeVersion: "1.0", ContentType: "text/plain; charset=UTF-8", ContentTransferEncoding: "8bit"}
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		switch key {
		case "Project-Id-Version":
			m.ProjectIDVersion = val
		case "Language":
			m.Language = val
		case "POT-Creation-Date":
			m.POTCreationDate = val
		case "MIME-Version":
			m.MimeVersion = val
		case "Content-Type":
			m.ContentType = val
		case "Content-Transfer-Encoding":
			m.ContentTransferEncoding = val
		}
	}
	return m, nil
}

// ParseGranularity validates the output.xgettext.granularity config value.
func ParseGranularity(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 1, nil
	case int:
		if n < 0 {
			return 0, mderr.New(mderr.ConfigError, "granularity must be non-negative", nil)
		}
		return n, nil
	case float64:
		return ParseGranularity(int(n))
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, mderr.New(mderr.ConfigError, "granularity must be an unsigned integer", err)
		}
		return ParseGranularity(i)
	default:
		return 0, mderr.New(mderr.ConfigError, fmt.Sprintf("granularity has wrong type %T", v), nil)
	}
}
