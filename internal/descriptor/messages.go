package descriptor

// Diagnostic texts.
const (
	msgOnlyEnum             = "only enum errors are supported"
	msgOnlyNamedFields      = "only enums with named fields are supported"
	msgDupeSource           = "more than one `errgen:\"source\"` attribute"
	msgDupeLocation         = "more than one `errgen:\"location\"` attribute"
	msgNoInner              = "inner attributes are not supported in this position"
	msgNeedErrorText        = "at least one `//errgen:error \"msg\"` attribute is required"
	msgMustBeNamedSource    = "field of `errgen:\"source\"` must be named `source`"
	msgMustBeNamedLocation  = "field of `errgen:\"location\"` must be named `location`"
	msgDupeTopLevel         = "more than one `//errgen:top_level` directive"
	msgNoEnums              = "no `//errgen:enum` types in file"
	msgMissingBuildTag      = "descriptor file is built without the %q tag; add `//go:build %s`"
	msgNotStringLiteral     = "`//errgen:%s` value must be a Go string literal"
	msgUnknownDirective     = "unknown directive `//errgen:%s`"
	msgDirectiveTakesNoArgs = "`//errgen:%s` takes no value"
	msgUnknownTag           = "unknown errgen tag value %q (want \"source\" or \"location\")"
	msgBadExpression        = "cannot parse %q as a Go expression"
	msgBadSpec              = "format spec %q has no Go equivalent"
	msgMethodCollision      = "field %s exports as %s, which collides with a generated method"
	msgFieldCollision       = "fields %s and %s both export as %s"
	msgNameCollision        = "generated name %s for %s is already used by %s"
	msgTypeNotFound         = "type %s not found"
	msgGeneric              = "generic error enumerations are not supported"
	msgReservedName         = "`%s` is a local of the generated code and cannot be used in a template argument"
	msgLocationType         = "field of `errgen:\"location\"` must have type %s.Location, got %s"
)
