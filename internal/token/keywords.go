package token

// The reserved keyword set from spec §6. Recognition in the original is a
// perfect hash over (first two bytes, length); here a map built once at
// package init gives the same O(1)-amortized dispatch property without
// hand-maintaining generated perfect-hash tables (see DESIGN.md).
const (
	KeywordNone Keyword = iota
	KeywordAs
	KeywordIs
	KeywordOut
	KeywordNew
	KeywordUsing
	KeywordTypeof
	KeywordVar
	KeywordIf
	KeywordElse
	KeywordForeach
	KeywordContinue
	KeywordWhile
	KeywordBreak
	KeywordCatch
	KeywordDo
	KeywordFinally
	KeywordFor
	KeywordSwitch
	KeywordCase
	KeywordReturn
	KeywordTry
	KeywordThrow
	KeywordRemember
	KeywordConst
	KeywordNamespace
	KeywordParams
	KeywordThis
	KeywordIn
	KeywordNameof
	KeywordSizeof
	KeywordNull
	KeywordDefault
	KeywordRef
	KeywordTemp
	KeywordScoped
	KeywordStatic
	KeywordOverride
	KeywordAbstract
	KeywordVirtual
	KeywordSealed
	KeywordClass
	KeywordStruct
	KeywordDelegate
	KeywordEnum
	KeywordInterface
	KeywordBase
	KeywordExtern
	KeywordPublic
	KeywordPrivate
	KeywordProtected
	KeywordInternal
	KeywordExport
	KeywordVoid
	KeywordGet
	KeywordSet
	KeywordWhere
	KeywordWhen
	KeywordWith
	KeywordTrue
	KeywordFalse
	KeywordDynamic
	KeywordObject
	KeywordString
	KeywordULong
	KeywordLong
	KeywordUShort
	KeywordShort
	KeywordDouble
	KeywordBool
	KeywordByte
	KeywordSByte
	KeywordChar
	KeywordFloat
	KeywordFloat2
	KeywordFloat3
	KeywordFloat4
	KeywordInt
	KeywordInt2
	KeywordInt3
	KeywordInt4
	KeywordUInt
	KeywordUInt2
	KeywordUInt3
	KeywordUInt4
	KeywordColor
	KeywordColor32
	KeywordColor64
	KeywordSingle
	KeywordInt8
	KeywordInt16
	KeywordInt32
	KeywordInt64
	KeywordUInt8
	KeywordUInt16
	KeywordUInt32
	KeywordUInt64
	KeywordTempAlloc
	KeywordScopeAlloc
	KeywordStackAlloc
	KeywordConstructor
	KeywordReadonly
)

var keywordText = map[string]Keyword{
	"as": KeywordAs, "is": KeywordIs, "out": KeywordOut, "new": KeywordNew,
	"using": KeywordUsing, "typeof": KeywordTypeof, "var": KeywordVar,
	"if": KeywordIf, "else": KeywordElse, "foreach": KeywordForeach,
	"continue": KeywordContinue, "while": KeywordWhile, "break": KeywordBreak,
	"catch": KeywordCatch, "do": KeywordDo, "finally": KeywordFinally,
	"for": KeywordFor, "switch": KeywordSwitch, "case": KeywordCase,
	"return": KeywordReturn, "try": KeywordTry, "throw": KeywordThrow,
	"remember": KeywordRemember, "const": KeywordConst, "namespace": KeywordNamespace,
	"params": KeywordParams, "this": KeywordThis, "in": KeywordIn,
	"nameof": KeywordNameof, "sizeof": KeywordSizeof, "null": KeywordNull,
	"default": KeywordDefault, "ref": KeywordRef, "temp": KeywordTemp,
	"scoped": KeywordScoped, "static": KeywordStatic, "override": KeywordOverride,
	"abstract": KeywordAbstract, "virtual": KeywordVirtual, "sealed": KeywordSealed,
	"class": KeywordClass, "struct": KeywordStruct, "delegate": KeywordDelegate,
	"enum": KeywordEnum, "interface": KeywordInterface, "base": KeywordBase,
	"extern": KeywordExtern, "public": KeywordPublic, "private": KeywordPrivate,
	"protected": KeywordProtected, "internal": KeywordInternal, "export": KeywordExport,
	"void": KeywordVoid, "get": KeywordGet, "set": KeywordSet, "where": KeywordWhere,
	"when": KeywordWhen, "with": KeywordWith, "true": KeywordTrue, "false": KeywordFalse,
	"dynamic": KeywordDynamic, "object": KeywordObject, "string": KeywordString,
	"ulong": KeywordULong, "long": KeywordLong, "ushort": KeywordUShort,
	"short": KeywordShort, "double": KeywordDouble, "bool": KeywordBool,
	"byte": KeywordByte, "sbyte": KeywordSByte, "char": KeywordChar,
	"float": KeywordFloat, "float2": KeywordFloat2, "float3": KeywordFloat3,
	"float4": KeywordFloat4, "int": KeywordInt, "int2": KeywordInt2,
	"int3": KeywordInt3, "int4": KeywordInt4, "uint": KeywordUInt,
	"uint2": KeywordUInt2, "uint3": KeywordUInt3, "uint4": KeywordUInt4,
	"color": KeywordColor, "color32": KeywordColor32, "color64": KeywordColor64,
	"single": KeywordSingle, "int8": KeywordInt8, "int16": KeywordInt16,
	"int32": KeywordInt32, "int64": KeywordInt64, "uint8": KeywordUInt8,
	"uint16": KeywordUInt16, "uint32": KeywordUInt32, "uint64": KeywordUInt64,
	"tempalloc": KeywordTempAlloc, "scopealloc": KeywordScopeAlloc,
	"stackalloc": KeywordStackAlloc, "constructor": KeywordConstructor,
	"readonly": KeywordReadonly,
}

// ClassifyKeyword returns the Keyword classification for an identifier's
// text, or KeywordNone if it is not reserved.
func ClassifyKeyword(text []byte) Keyword {
	if kw, ok := keywordText[string(text)]; ok {
		return kw
	}
	return KeywordNone
}

// ReservedWords returns every reserved keyword spelling, for callers that
// need the full set rather than a single classification (e.g. fuzzy
// "did you mean" suggestions against misspelled identifiers).
func ReservedWords() []string {
	words := make([]string, 0, len(keywordText))
	for w := range keywordText {
		words = append(words, w)
	}
	return words
}
