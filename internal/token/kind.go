// Package token implements the stateful UTF-8 tokenizer: kind
// classification, keyword recognition, and the string-interpolation /
// multi-line-string state machine described in spec §4.C.
package token

// Kind is the closed token-kind enumeration from spec §6, the boundary
// type between the tokenizer and everything downstream.
type Kind uint16

const (
	EndOfInput Kind = iota
	Comment
	Whitespace
	KeywordOrIdentifier

	StringStart
	StringEnd
	RegularStringPart
	RegularStylePart
	RegularCharacterPart
	ShortStringInterpolation
	LongStringInterpolationStart
	LongStringInterpolationEnd
	OpenStyle
	CloseStyle
	OpenCharacter
	CloseCharacter
	MultiLineStringStart
	MultiLineStringEnd
	BadCharacter

	// Operators and punctuation.
	Coalesce             // ??
	ConditionalAccess     // ?.
	ConditionalAnd        // &&
	ConditionalOr         // ||
	FatArrow              // =>
	ThinArrow             // ->
	ConditionalEquals     // ==
	ConditionalNotEquals  // !=
	Increment             // ++
	Decrement             // --
	Assign                // =
	PlusAssign            // +=
	MinusAssign           // -=
	MultiplyAssign        // *=
	DivideAssign          // /=
	ModulusAssign         // %=
	AndAssign             // &=
	OrAssign              // |=
	XorAssign             // ^=
	ShiftLeftAssign       // <<=
	ShiftRightAssign      // >>=
	CoalesceAssign        // ??=
	GreaterThanEqualTo    // >=
	LessThanEqualTo       // <=
	AngleBracketOpen      // <
	AngleBracketClose     // >
	Not                   // !
	Plus                  // +
	Minus                 // -
	Divide                // /
	Multiply              // *
	Modulus               // %
	BinaryNot             // ~
	BinaryOr              // |
	BinaryAnd             // &
	BinaryXor             // ^
	QuestionMark          // ?
	Colon                 // :
	SemiColon             // ;
	DoubleColon           // ::
	Dot                   // .
	At                    // @
	Comma                 // ,
	OpenParen             // (
	CloseParen            // )
	SquareBraceOpen       // [
	SquareBraceClose      // ]
	CurlyBraceOpen        // {
	CurlyBraceClose       // }
	HashTag               // #
	Splat                 // ...

	UInt32Literal
	UInt64Literal
	Int32Literal
	Int64Literal
	FloatLiteral
	DoubleLiteral
	BinaryNumberLiteral
	HexLiteral
)

var kindNames = map[Kind]string{
	EndOfInput:                   "EndOfInput",
	Comment:                      "Comment",
	Whitespace:                   "Whitespace",
	KeywordOrIdentifier:          "KeywordOrIdentifier",
	StringStart:                  "StringStart",
	StringEnd:                    "StringEnd",
	RegularStringPart:            "RegularStringPart",
	RegularStylePart:             "RegularStylePart",
	RegularCharacterPart:         "RegularCharacterPart",
	ShortStringInterpolation:     "ShortStringInterpolation",
	LongStringInterpolationStart: "LongStringInterpolationStart",
	LongStringInterpolationEnd:   "LongStringInterpolationEnd",
	OpenStyle:                    "OpenStyle",
	CloseStyle:                   "CloseStyle",
	OpenCharacter:                "OpenCharacter",
	CloseCharacter:               "CloseCharacter",
	MultiLineStringStart:         "MultiLineStringStart",
	MultiLineStringEnd:           "MultiLineStringEnd",
	BadCharacter:                 "BadCharacter",
	Coalesce:                     "Coalesce",
	ConditionalAccess:            "ConditionalAccess",
	ConditionalAnd:               "ConditionalAnd",
	ConditionalOr:                "ConditionalOr",
	FatArrow:                     "FatArrow",
	ThinArrow:                    "ThinArrow",
	ConditionalEquals:            "ConditionalEquals",
	ConditionalNotEquals:         "ConditionalNotEquals",
	Increment:                    "Increment",
	Decrement:                    "Decrement",
	Assign:                       "Assign",
	PlusAssign:                   "PlusAssign",
	MinusAssign:                  "MinusAssign",
	MultiplyAssign:               "MultiplyAssign",
	DivideAssign:                 "DivideAssign",
	ModulusAssign:                "ModulusAssign",
	AndAssign:                    "AndAssign",
	OrAssign:                     "OrAssign",
	XorAssign:                    "XorAssign",
	ShiftLeftAssign:              "ShiftLeftAssign",
	ShiftRightAssign:             "ShiftRightAssign",
	CoalesceAssign:               "CoalesceAssign",
	GreaterThanEqualTo:           "GreaterThanEqualTo",
	LessThanEqualTo:              "LessThanEqualTo",
	AngleBracketOpen:             "AngleBracketOpen",
	AngleBracketClose:            "AngleBracketClose",
	Not:                          "Not",
	Plus:                         "Plus",
	Minus:                        "Minus",
	Divide:                       "Divide",
	Multiply:                     "Multiply",
	Modulus:                      "Modulus",
	BinaryNot:                    "BinaryNot",
	BinaryOr:                     "BinaryOr",
	BinaryAnd:                    "BinaryAnd",
	BinaryXor:                    "BinaryXor",
	QuestionMark:                 "QuestionMark",
	Colon:                        "Colon",
	SemiColon:                    "SemiColon",
	DoubleColon:                  "DoubleColon",
	Dot:                          "Dot",
	At:                           "At",
	Comma:                        "Comma",
	OpenParen:                    "OpenParen",
	CloseParen:                   "CloseParen",
	SquareBraceOpen:              "SquareBraceOpen",
	SquareBraceClose:             "SquareBraceClose",
	CurlyBraceOpen:               "CurlyBraceOpen",
	CurlyBraceClose:              "CurlyBraceClose",
	HashTag:                      "HashTag",
	Splat:                        "Splat",
	UInt32Literal:                "UInt32Literal",
	UInt64Literal:                "UInt64Literal",
	Int32Literal:                 "Int32Literal",
	Int64Literal:                 "Int64Literal",
	FloatLiteral:                 "FloatLiteral",
	DoubleLiteral:                "DoubleLiteral",
	BinaryNumberLiteral:          "BinaryNumberLiteral",
	HexLiteral:                   "HexLiteral",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsTrivia reports whether a token of this kind is whitespace or a
// comment — the two kinds excluded from the non-trivial projection.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}
