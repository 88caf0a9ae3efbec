package symbol

import "strconv"

// Kind is the editor's numeric symbol category. Values match the host's
// document-symbol enumeration so trees can be passed through unchanged.
type Kind int

const (
	File Kind = iota
	Module
	Namespace
	Package
	Class
	Method
	Property
	Field
	Constructor
	Enum
	Interface
	Function
	Variable
	Constant
	String
	Number
	Boolean
	Array
	Object
	Key
	Null
	EnumMember
	Struct
	Event
	Operator
	TypeParameter
)

var kindNames = [...]string{
	"File", "Module", "Namespace", "Package", "Class", "Method", "Property", "Field",
	"Constructor", "Enum", "Interface", "Function", "Variable", "Constant", "String",
	"Number", "Boolean", "Array", "Object", "Key", "Null", "EnumMember", "Struct",
	"Event", "Operator", "TypeParameter",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsCallable reports whether k is a function-like symbol.
func (k Kind) IsCallable() bool {
	return k == Function || k == Method || k == Constructor
}
