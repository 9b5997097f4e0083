package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические (фазы 1-3, 5, 6)
	LexInfo                 Code = 1000
	LexBackslashAtEOF       Code = 1001
	LexUnterminatedChar     Code = 1002
	LexUnterminatedComment  Code = 1003
	LexInvalidEscape        Code = 1004
	LexEscapeAtEnd          Code = 1005
	LexIncompatibleEncoding Code = 1006
	LexIncompleteUCN        Code = 1007
	LexEscapeOutOfRange     Code = 1008
	LexUnrepresentable      Code = 1009
	LexUnterminatedString   Code = 1010

	// Синтаксис директив
	DirInfo                    Code = 2000
	DirInvalid                 Code = 2001
	DirExpectedFound           Code = 2002
	DirParamRepeated           Code = 2003
	DirStringifyNotParam       Code = 2004
	DirPasteAtEdge             Code = 2005
	DirUnterminatedConditional Code = 2006
	DirUnexpected              Code = 2007
	DirUnsupportedIf           Code = 2008
	DirUserError               Code = 2009
	DirUserWarning             Code = 2010
	DirTooManyParams           Code = 2011

	// Семантика макросов
	MacInfo                   Code = 3000
	MacRedefined              Code = 3001
	MacUndefinedName          Code = 3002
	MacArity                  Code = 3003
	MacUnterminatedInvocation Code = 3004
	MacInvalidPaste           Code = 3005

	// #include
	IncInfo             Code = 4000
	IncExpectedFilename Code = 4001
	IncUnclosedAngle    Code = 4002
	IncExtraTokens      Code = 4003
	IncDepthExceeded    Code = 4004
	IncNotFound         Code = 4005
	IncReadError        Code = 4006

	// Ввод-вывод
	IOInfo          Code = 5000
	IOLoadFileError Code = 5001

	// Конфигурация (ppfront.toml)
	CfgInfo         Code = 6000
	CfgUnknownKey   Code = 6001
	CfgInvalidValue Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                "Unknown error",
		LexInfo:                    "Lexical information",
		LexBackslashAtEOF:          "File ends with a backslash",
		LexUnterminatedChar:        "Unterminated character constant",
		LexUnterminatedComment:     "Unterminated block comment",
		LexInvalidEscape:           "Invalid escape sequence",
		LexEscapeAtEnd:             "Escape sequence at end of literal",
		LexIncompatibleEncoding:    "Incompatible string literal encodings",
		LexIncompleteUCN:           "Incomplete universal character name",
		LexEscapeOutOfRange:        "Escape value out of range",
		LexUnrepresentable:         "Escape value cannot be represented",
		LexUnterminatedString:      "Unterminated string literal",
		DirInfo:                    "Directive information",
		DirInvalid:                 "Invalid directive",
		DirExpectedFound:           "Malformed directive",
		DirParamRepeated:           "Repeated macro parameter",
		DirStringifyNotParam:       "Stringify operand is not a parameter",
		DirPasteAtEdge:             "Token paste at replacement list edge",
		DirUnterminatedConditional: "Unterminated conditional",
		DirUnexpected:              "Unexpected directive",
		DirUnsupportedIf:           "Unsupported #if expression",
		DirUserError:               "#error directive",
		DirUserWarning:             "#warning directive",
		DirTooManyParams:           "Too many macro parameters",
		MacInfo:                    "Macro information",
		MacRedefined:               "Incompatible macro redefinition",
		MacUndefinedName:           "Undefining an unknown macro",
		MacArity:                   "Wrong number of macro arguments",
		MacUnterminatedInvocation:  "Unterminated macro invocation",
		MacInvalidPaste:            "Invalid token paste",
		IncInfo:                    "Include information",
		IncExpectedFilename:        "Malformed include target",
		IncUnclosedAngle:           "Unclosed <FILENAME>",
		IncExtraTokens:             "Extra tokens after include target",
		IncDepthExceeded:           "Include depth exceeded",
		IncNotFound:                "Include file not found",
		IncReadError:               "Include file read error",
		IOInfo:                     "I/O information",
		IOLoadFileError:            "I/O load file error",
		CfgInfo:                    "Configuration information",
		CfgUnknownKey:              "Unknown manifest key",
		CfgInvalidValue:            "Invalid manifest value",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DIR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
