package clarityast

// Node is one element of Clarity source.
type Node interface {
	node()
}

// Atom is printed verbatim; it must not contain whitespace, delimiters or quotes.
type Atom string

// Str is an ASCII string literal; the printer escapes it.
type Str string

// UTF8Str is a u"..." string literal; the printer escapes it.
type UTF8Str string

// Comment renders as ";; text" on its own line.
type Comment string

// Blank renders as an empty line.
type Blank struct{}

// List is a parenthesised form. When it does not fit on one line, the first Head
// items stay on the opening line and the rest are indented below it.
type List struct {
	Items []Node
	Head  int
	Break bool
}

type Field struct {
	Name  string
	Value Node
}

// Tuple is a { key: value, ... } literal.
type Tuple struct {
	Fields []Field
	Break  bool
}

type Program []Node

func (Atom) node()    {}
func (Str) node()     {}
func (UTF8Str) node() {}
func (Comment) node() {}
func (Blank) node()   {}
func (List) node()    {}
func (Tuple) node()   {}

// L builds an inline-preferred list.
func L(items ...Node) List {
	return List{Items: items, Head: 1}
}

// Form builds a list that keeps head items on the opening line and always breaks.
func Form(head int, items ...Node) List {
	return List{Items: items, Head: head, Break: true}
}

func A(text string) Atom {
	return Atom(text)
}

// U renders an unsigned integer literal.
func U(value string) Atom {
	return Atom("u" + value)
}
