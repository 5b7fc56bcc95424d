package schema

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	formRe     = regexp.MustCompile(`^form\s+(?:"([^"]+)"|([A-Za-z0-9_ ]+?))\s*:$`)
	fieldRe    = regexp.MustCompile(`^\s*([\w_]+):\s*([^\s#]+)(.*)$`)
	dropdownRe = regexp.MustCompile(`^(?:dropdown|select)\[(.*)\]$`)
)

// splitOptionTokens делит `"First Name" required label='a b'` на токены,
// не рвёт по пробелам внутри кавычек.
func splitOptionTokens(s string) []string {
	var out []string
	var buf []rune
	inSingle, inDouble := false, false

	flush := func() {
		if len(buf) > 0 {
			out = append(out, string(buf))
			buf = buf[:0]
		}
	}

	for _, r := range s {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
			buf = append(buf, r)
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
			buf = append(buf, r)
		default:
			if (r == ' ' || r == '\t') && !inSingle && !inDouble {
				flush()
				continue
			}
			buf = append(buf, r)
		}
	}
	flush()
	return out
}

func unquote(v string) (string, bool) {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1], true
		}
	}
	return v, false
}

// splitOptionList режет содержимое dropdown[...] по запятым вне кавычек.
func splitOptionList(s string) []string {
	var out []string
	var buf []rune
	inSingle, inDouble := false, false
	flush := func() {
		p, _ := unquote(strings.TrimSpace(string(buf)))
		if p != "" {
			out = append(out, p)
		}
		buf = buf[:0]
	}
	for _, r := range s {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == ',' && !inSingle && !inDouble:
			flush()
			continue
		}
		buf = append(buf, r)
	}
	flush()
	return out
}

// stripComment срезает хвост после # вне кавычек.
func stripComment(s string) string {
	inSingle, inDouble := false, false
	for i, r := range s {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return s[:i]
			}
		}
	}
	return s
}

// ParseDSL читает формы в строчном формате:
//
//	form "Address Information":
//	  street: text "Street" required
//	  state: dropdown["--Select State--", California, "New York"] "State" required
func ParseDSL(r io.Reader) (*Catalog, error) {
	catalog := NewCatalog()
	var current *Form
	lineNo := 0

	closeCurrent := func() {
		if current != nil {
			catalog.Add(*current)
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// form "<Name>":
		if m := formRe.FindStringSubmatch(line); m != nil {
			closeCurrent()
			name := m[1]
			if name == "" {
				name = strings.TrimSpace(m[2])
			}
			current = &Form{Type: name}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: field outside of form block", lineNo)
		}

		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: cannot parse %q", lineNo, line)
		}
		name, rawType, tail := m[1], m[2], m[3]

		// склейка оборванного типа: dropdown["New York", Texas]
		if strings.Contains(rawType, "[") && !strings.HasSuffix(rawType, "]") {
			idx := strings.Index(tail, "]")
			if idx < 0 {
				return nil, fmt.Errorf("line %d: unterminated option list", lineNo)
			}
			rawType += tail[:idx+1]
			tail = tail[idx+1:]
		}

		f := Field{Name: name}
		if mm := dropdownRe.FindStringSubmatch(rawType); mm != nil {
			f.Type = TypeDropdown
			f.Options = splitOptionList(mm[1])
		} else {
			f.Type = FieldType(strings.ToLower(rawType))
		}

		for _, tok := range splitOptionTokens(strings.TrimSpace(stripComment(tail))) {
			// "Label" без ключа
			if v, quoted := unquote(tok); quoted {
				f.Label = v
				continue
			}
			if !strings.Contains(tok, "=") {
				switch strings.ToLower(tok) {
				case "required":
					f.Required = true
				case "optional":
					f.Required = false
				default:
					return nil, fmt.Errorf("line %d: unknown flag %q", lineNo, tok)
				}
				continue
			}
			kv := strings.SplitN(tok, "=", 2)
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			v, _ := unquote(strings.TrimSpace(kv[1]))
			switch k {
			case "label":
				f.Label = v
			case "required":
				f.Required = strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
			default:
				return nil, fmt.Errorf("line %d: unknown option %q", lineNo, k)
			}
		}

		current.Fields = append(current.Fields, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	closeCurrent()
	return catalog, nil
}

// LoadDSLFile читает один *.form файл.
func LoadDSLFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := ParseDSL(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}
