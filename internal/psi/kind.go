// Package psi implements the marker/production-stream tree builder that
// sits between the tokenizer and the parser: it allocates node slots,
// records a linear production stream, and supports precede/rollback so the
// parser can retroactively reshape what it has already matched.
package psi

// Kind is the node-kind tag stored in each arena slot. It mirrors the
// grammar surface from spec §4.E at the granularity the tree builder and
// parser need to drive dumps and error recovery; it does not attempt to
// name every leaf production the way a generated AST would.
type Kind uint16

const (
	Invalid Kind = iota
	File
	ErrorNode

	// Declarations.
	UsingDirective
	NamespaceDeclaration
	ClassDeclaration
	StructDeclaration
	EnumDeclaration
	EnumMember
	InterfaceDeclaration
	DelegateDeclaration
	FieldDeclaration
	PropertyDeclaration
	AccessorDeclaration
	IndexerDeclaration
	ConstructorDeclaration
	MethodDeclaration
	ConstantDeclaration
	ParameterList
	Parameter
	GenericParameterList
	GenericParameter
	BaseList
	ModifierList

	// Statements.
	Block
	ExpressionStatement
	LocalDeclarationStatement
	IfStatement
	ForStatement
	ForeachStatement
	WhileStatement
	DoStatement
	SwitchStatement
	SwitchSection
	TryStatement
	CatchClause
	FinallyClause
	UsingStatement
	WithStatement
	ReturnStatement
	BreakStatement
	ContinueStatement
	ThrowStatement

	// Expressions.
	BinaryExpression
	UnaryExpression
	PostfixExpression
	TernaryExpression
	LambdaExpression
	CastExpression
	ParenthesizedExpression
	InvocationExpression
	MemberAccessExpression
	ElementAccessExpression
	ArgumentList
	Argument
	ObjectCreationExpression
	ArrayCreationExpression
	InitializerExpression
	TypeofExpression
	DefaultExpression
	NameofExpression
	SizeofExpression
	IsExpression
	AsExpression
	IdentifierName
	QualifiedName
	GenericName
	TypeArgumentList
	LiteralExpression
	InterpolatedStringExpression
	InterpolatedStringPart
	SwitchExpression
	SwitchExpressionArm

	// Type paths.
	TypePath
	ArrayType
	NullableType
)

var kindNames = map[Kind]string{
	Invalid:                       "Invalid",
	File:                          "File",
	ErrorNode:                     "ErrorNode",
	UsingDirective:                "UsingDirective",
	NamespaceDeclaration:          "NamespaceDeclaration",
	ClassDeclaration:              "ClassDeclaration",
	StructDeclaration:             "StructDeclaration",
	EnumDeclaration:               "EnumDeclaration",
	EnumMember:                    "EnumMember",
	InterfaceDeclaration:          "InterfaceDeclaration",
	DelegateDeclaration:           "DelegateDeclaration",
	FieldDeclaration:              "FieldDeclaration",
	PropertyDeclaration:           "PropertyDeclaration",
	AccessorDeclaration:           "AccessorDeclaration",
	IndexerDeclaration:            "IndexerDeclaration",
	ConstructorDeclaration:        "ConstructorDeclaration",
	MethodDeclaration:             "MethodDeclaration",
	ConstantDeclaration:           "ConstantDeclaration",
	ParameterList:                 "ParameterList",
	Parameter:                     "Parameter",
	GenericParameterList:          "GenericParameterList",
	GenericParameter:              "GenericParameter",
	BaseList:                      "BaseList",
	ModifierList:                  "ModifierList",
	Block:                         "Block",
	ExpressionStatement:           "ExpressionStatement",
	LocalDeclarationStatement:     "LocalDeclarationStatement",
	IfStatement:                   "IfStatement",
	ForStatement:                  "ForStatement",
	ForeachStatement:              "ForeachStatement",
	WhileStatement:                "WhileStatement",
	DoStatement:                   "DoStatement",
	SwitchStatement:               "SwitchStatement",
	SwitchSection:                 "SwitchSection",
	TryStatement:                  "TryStatement",
	CatchClause:                   "CatchClause",
	FinallyClause:                 "FinallyClause",
	UsingStatement:                "UsingStatement",
	WithStatement:                 "WithStatement",
	ReturnStatement:               "ReturnStatement",
	BreakStatement:                "BreakStatement",
	ContinueStatement:             "ContinueStatement",
	ThrowStatement:                "ThrowStatement",
	BinaryExpression:              "BinaryExpression",
	UnaryExpression:               "UnaryExpression",
	PostfixExpression:             "PostfixExpression",
	TernaryExpression:             "TernaryExpression",
	LambdaExpression:              "LambdaExpression",
	CastExpression:                "CastExpression",
	ParenthesizedExpression:       "ParenthesizedExpression",
	InvocationExpression:          "InvocationExpression",
	MemberAccessExpression:        "MemberAccessExpression",
	ElementAccessExpression:       "ElementAccessExpression",
	ArgumentList:                  "ArgumentList",
	Argument:                      "Argument",
	ObjectCreationExpression:      "ObjectCreationExpression",
	ArrayCreationExpression:       "ArrayCreationExpression",
	InitializerExpression:         "InitializerExpression",
	TypeofExpression:              "TypeofExpression",
	DefaultExpression:             "DefaultExpression",
	NameofExpression:              "NameofExpression",
	SizeofExpression:              "SizeofExpression",
	IsExpression:                  "IsExpression",
	AsExpression:                  "AsExpression",
	IdentifierName:                "IdentifierName",
	QualifiedName:                 "QualifiedName",
	GenericName:                   "GenericName",
	TypeArgumentList:              "TypeArgumentList",
	LiteralExpression:             "LiteralExpression",
	InterpolatedStringExpression:  "InterpolatedStringExpression",
	InterpolatedStringPart:        "InterpolatedStringPart",
	SwitchExpression:              "SwitchExpression",
	SwitchExpressionArm:           "SwitchExpressionArm",
	TypePath:                      "TypePath",
	ArrayType:                     "ArrayType",
	NullableType:                  "NullableType",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}
