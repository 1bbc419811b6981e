package config

// IsValid reports whether f is one of the known rule formats.
func (f RuleFormat) IsValid() bool {
	return f == RuleFormatName || f == RuleFormatID || f == RuleFormatCombined
}

// Label renders a rule for output. Rules without a name are always shown
// by ID; an unset or unknown format shows the name.
func (f RuleFormat) Label(id, name string) string {
	switch {
	case name == "", f == RuleFormatID:
		return id
	case f == RuleFormatCombined:
		return id + "/" + name
	default:
		return name
	}
}
