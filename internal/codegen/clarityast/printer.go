package clarityast

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxLineWidth = 160
	indentWidth  = 4
)

var ErrInvalidNode = errors.New("invalid clarity node")

func Print(program Program) (string, error) {
	builder := &strings.Builder{}
	for _, top := range program {
		text, err := render(top, 0)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
	}
	return builder.String(), nil
}

func render(n Node, indent int) (string, error) {
	switch typed := n.(type) {
	case Comment:
		if strings.ContainsAny(string(typed), "\r\n") {
			return "", fmt.Errorf("%w: comment spans lines", ErrInvalidNode)
		}
		if typed == "" {
			return ";;", nil
		}
		return ";; " + string(typed), nil
	case Blank:
		return "", nil
	case List:
		return renderList(typed, indent)
	case Tuple:
		return renderTuple(typed, indent)
	default:
		return renderInline(n)
	}
}

func renderInline(n Node) (string, error) {
	switch typed := n.(type) {
	case Atom:
		if err := validateAtom(typed); err != nil {
			return "", err
		}
		return string(typed), nil
	case Str:
		return escapeASCII(string(typed))
	case UTF8Str:
		return escapeUTF8(string(typed))
	case List:
		if typed.Break {
			return "", errForcedBreak
		}
		parts := make([]string, 0, len(typed.Items))
		for _, item := range typed.Items {
			text, err := renderInline(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
		}
		return "(" + strings.Join(parts, " ") + ")", nil
	case Tuple:
		if typed.Break {
			return "", errForcedBreak
		}
		parts := make([]string, 0, len(typed.Fields))
		for _, field := range typed.Fields {
			if err := validateAtom(Atom(field.Name)); err != nil {
				return "", err
			}
			text, err := renderInline(field.Value)
			if err != nil {
				return "", err
			}
			parts = append(parts, field.Name+": "+text)
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	case Comment, Blank:
		return "", errForcedBreak
	case nil:
		return "", fmt.Errorf("%w: nil node", ErrInvalidNode)
	default:
		return "", fmt.Errorf("%w: %T", ErrInvalidNode, n)
	}
}

var errForcedBreak = errors.New("node must span lines")

func renderList(list List, indent int) (string, error) {
	inline, err := renderInline(list)
	if err == nil && indent+len(inline) <= maxLineWidth {
		return inline, nil
	}
	if err != nil && !errors.Is(err, errForcedBreak) {
		return "", err
	}

	head := list.Head
	if head < 1 {
		head = 1
	}
	if head > len(list.Items) {
		head = len(list.Items)
	}

	headParts := make([]string, 0, head)
	for _, item := range list.Items[:head] {
		text, err := render(item, indent)
		if err != nil {
			return "", err
		}
		headParts = append(headParts, text)
	}

	builder := &strings.Builder{}
	builder.WriteString("(")
	builder.WriteString(strings.Join(headParts, " "))

	childIndent := indent + indentWidth
	pad := strings.Repeat(" ", childIndent)
	endsInComment := false
	for _, item := range list.Items[head:] {
		text, err := render(item, childIndent)
		if err != nil {
			return "", err
		}
		builder.WriteByte('\n')
		if text != "" {
			builder.WriteString(pad)
			builder.WriteString(text)
		}
		_, endsInComment = item.(Comment)
	}
	if endsInComment {
		builder.WriteByte('\n')
		builder.WriteString(strings.Repeat(" ", indent))
	}
	builder.WriteString(")")
	return builder.String(), nil
}

func renderTuple(tuple Tuple, indent int) (string, error) {
	inline, err := renderInline(tuple)
	if err == nil && indent+len(inline) <= maxLineWidth {
		return inline, nil
	}
	if err != nil && !errors.Is(err, errForcedBreak) {
		return "", err
	}

	childIndent := indent + indentWidth
	pad := strings.Repeat(" ", childIndent)
	builder := &strings.Builder{}
	builder.WriteString("{")
	for i, field := range tuple.Fields {
		if err := validateAtom(Atom(field.Name)); err != nil {
			return "", err
		}
		text, err := render(field.Value, childIndent)
		if err != nil {
			return "", err
		}
		builder.WriteByte('\n')
		builder.WriteString(pad)
		builder.WriteString(field.Name)
		builder.WriteString(": ")
		builder.WriteString(text)
		if i < len(tuple.Fields)-1 {
			builder.WriteByte(',')
		}
	}
	builder.WriteByte('\n')
	builder.WriteString(strings.Repeat(" ", indent))
	builder.WriteString("}")
	return builder.String(), nil
}

func validateAtom(atom Atom) error {
	if atom == "" {
		return fmt.Errorf("%w: empty atom", ErrInvalidNode)
	}
	for _, r := range string(atom) {
		if r <= ' ' || r > '~' || strings.ContainsRune(`()"{};,`, r) {
			return fmt.Errorf("%w: atom %q contains %q", ErrInvalidNode, string(atom), r)
		}
	}
	return nil
}

func escapeASCII(value string) (string, error) {
	builder := &strings.Builder{}
	builder.WriteByte('"')
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		case '\n':
			builder.WriteString(`\n`)
		case '\t':
			builder.WriteString(`\t`)
		case '\r':
			builder.WriteString(`\r`)
		default:
			if c < ' ' || c > '~' {
				return "", fmt.Errorf("%w: string-ascii literal contains byte 0x%02x", ErrInvalidNode, c)
			}
			builder.WriteByte(c)
		}
	}
	builder.WriteByte('"')
	return builder.String(), nil
}

func escapeUTF8(value string) (string, error) {
	if !utf8.ValidString(value) {
		return "", fmt.Errorf("%w: string-utf8 literal is not valid utf-8", ErrInvalidNode)
	}

	builder := &strings.Builder{}
	builder.WriteString(`u"`)
	for _, r := range value {
		switch {
		case r == '"':
			builder.WriteString(`\"`)
		case r == '\\':
			builder.WriteString(`\\`)
		case r == '\n':
			builder.WriteString(`\n`)
		case r == '\t':
			builder.WriteString(`\t`)
		case r == '\r':
			builder.WriteString(`\r`)
		case r < ' ' || r > '~':
			fmt.Fprintf(builder, `\u{%x}`, r)
		default:
			builder.WriteRune(r)
		}
	}
	builder.WriteByte('"')
	return builder.String(), nil
}
