package template

// Clone returns a deep copy so callers can edit without touching shared
// catalog data.
func (t FormTemplate) Clone() FormTemplate {
	out := t
	out.Tags = cloneStrings(t.Tags)
	if t.Sections != nil {
		out.Sections = make([]FormSection, len(t.Sections))
		for i, section := range t.Sections {
			out.Sections[i] = section.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the section.
func (s FormSection) Clone() FormSection {
	out := s
	if s.Fields != nil {
		out.Fields = make([]FormField, len(s.Fields))
		for i, field := range s.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the field.
func (f FormField) Clone() FormField {
	out := f
	out.Options = cloneStrings(f.Options)
	if f.Min != nil {
		v := *f.Min
		out.Min = &v
	}
	if f.Max != nil {
		v := *f.Max
		out.Max = &v
	}
	if f.Conditional != nil {
		cond := *f.Conditional
		cond.ShowIf.Values = cloneStrings(cond.ShowIf.Values)
		out.Conditional = &cond
	}
	return out
}

// Clone returns a deep copy of the community template.
func (t CommunityTemplate) Clone() CommunityTemplate {
	out := t
	out.FormTemplate = t.FormTemplate.Clone()
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
