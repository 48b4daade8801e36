package conveyor

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryArg is one optional or required argument of a parameterized
// operation. A nil Value elides the argument from both the rendered
// document and the variables map.
type QueryArg struct {
	// Name is used both as the field argument name and the variable
	// name.
	Name string
	// Type is the declared GraphQL type, e.g. "ID!", "String", "Int".
	Type string
	// Value is the runtime value, carried in the variables map. Nil
	// means the argument was not supplied.
	Value interface{}
}

var (
	graphqlName = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)
	graphqlType = regexp.MustCompile(`^\[?[_A-Za-z][_0-9A-Za-z]*!?\]?!?$`)
)

// BuildQuery renders a single query document plus its variables map
// from an operation name, a root field, a selection set, and a list of
// argument tuples. Every supplied value travels as a GraphQL variable;
// nothing is ever interpolated into the document text, so caller input
// cannot alter the operation's structure.
func BuildQuery(opName, field, selection string, args ...QueryArg) (string, map[string]interface{}, error) {
	if !graphqlName.MatchString(opName) {
		return "", nil, fmt.Errorf("invalid operation name %q", opName)
	}
	if !graphqlName.MatchString(field) {
		return "", nil, fmt.Errorf("invalid field name %q", field)
	}

	var decls, fieldArgs []string
	variables := map[string]interface{}{}
	for _, arg := range args {
		if arg.Value == nil {
			continue
		}
		if !graphqlName.MatchString(arg.Name) {
			return "", nil, fmt.Errorf("invalid argument name %q", arg.Name)
		}
		if !graphqlType.MatchString(arg.Type) {
			return "", nil, fmt.Errorf("invalid argument type %q for %q", arg.Type, arg.Name)
		}
		decls = append(decls, fmt.Sprintf("$%s: %s", arg.Name, arg.Type))
		fieldArgs = append(fieldArgs, fmt.Sprintf("%s: $%s", arg.Name, arg.Name))
		variables[arg.Name] = arg.Value
	}

	var doc strings.Builder
	doc.WriteString("query ")
	doc.WriteString(opName)
	if len(decls) > 0 {
		doc.WriteString("(")
		doc.WriteString(strings.Join(decls, ", "))
		doc.WriteString(")")
	}
	doc.WriteString(" { ")
	doc.WriteString(field)
	if len(fieldArgs) > 0 {
		doc.WriteString("(")
		doc.WriteString(strings.Join(fieldArgs, ", "))
		doc.WriteString(")")
	}
	doc.WriteString(" { ")
	doc.WriteString(selection)
	doc.WriteString(" } }")

	return doc.String(), variables, nil
}
