package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Format-string compiler
	FmtInfo             Code = 1000
	FmtUnterminated     Code = 1001
	FmtEmptyArgument    Code = 1002
	FmtUnmatchedClose   Code = 1003
	FmtBadExpression    Code = 1004
	FmtBadSpec          Code = 1005
	FmtNotStringLiteral Code = 1006

	// Structure of the descriptor
	DescInfo                Code = 2000
	DescOnlyEnum            Code = 2001
	DescOnlyNamedFields     Code = 2002
	DescDupeSource          Code = 2003
	DescDupeLocation        Code = 2004
	DescInnerAttribute      Code = 2005
	DescNeedErrorText       Code = 2006
	DescSourceMustBeNamed   Code = 2007
	DescLocationMustBeNamed Code = 2008
	DescDupeTopLevel        Code = 2009
	DescUnknownDirective    Code = 2010
	DescUnknownTag          Code = 2011
	DescMethodCollision     Code = 2012
	DescMissingBuildTag     Code = 2013
	DescNoEnums             Code = 2014
	DescSyntax              Code = 2015
	DescTypeNotFound        Code = 2016
	DescDupeVariant         Code = 2017
	DescFieldCollision      Code = 2018
	DescReservedName        Code = 2019
	DescLocationType        Code = 2020

	// Generation
	GenInfo   Code = 3000
	GenFailed Code = 3001
	GenFormat Code = 3002
	GenStale  Code = 3003

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		FmtInfo:                 "Format string information",
		FmtUnterminated:         "Unterminated placeholder",
		FmtEmptyArgument:        "Empty argument name",
		FmtUnmatchedClose:       "Unmatched closing brace",
		FmtBadExpression:        "Invalid argument expression",
		FmtBadSpec:              "Invalid format spec",
		FmtNotStringLiteral:     "Directive value is not a string literal",
		DescInfo:                "Descriptor information",
		DescOnlyEnum:            "Not an enumeration",
		DescOnlyNamedFields:     "Positional variant",
		DescDupeSource:          "Duplicate source field",
		DescDupeLocation:        "Duplicate location field",
		DescInnerAttribute:      "Directive in inner position",
		DescNeedErrorText:       "Missing error message",
		DescSourceMustBeNamed:   "Misnamed source field",
		DescLocationMustBeNamed: "Misnamed location field",
		DescDupeTopLevel:        "Duplicate top_level directive",
		DescUnknownDirective:    "Unknown directive",
		DescUnknownTag:          "Unknown errgen tag value",
		DescMethodCollision:     "Field collides with a generated method",
		DescMissingBuildTag:     "Descriptor is not excluded from normal builds",
		DescNoEnums:             "No enumerations found",
		DescSyntax:              "Go syntax error",
		DescTypeNotFound:        "Requested type not found",
		DescDupeVariant:         "Generated name already in use",
		DescFieldCollision:      "Fields export to the same name",
		DescReservedName:        "Argument uses a generated local name",
		DescLocationType:        "Location field has the wrong type",
		GenInfo:                 "Generation information",
		GenFailed:               "Generation failed",
		GenFormat:               "Generated code does not format",
		GenStale:                "Generated file is out of date",
		IOLoadFileError:         "I/O load file error",
		IOWriteFileError:        "I/O write file error",
		IOCacheError:            "Cache error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
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
