package leadform

import (
	"storytrain_landing/internal/rowstore"
	"storytrain_landing/platform/apperr"
)

// Field names one input control of the form.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// Draft is the current content of the three input controls.
type Draft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DraftPatch carries the fields an edit changed; nil fields are untouched.
type DraftPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Empty reports whether the patch changes nothing.
func (p DraftPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}

func (d *Draft) set(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	default:
		return apperr.BadRequest("unknown form field " + string(field))
	}
	return nil
}

func (d *Draft) apply(p DraftPatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
}

// Lead is the record written on submission. Phone is nil when left blank.
type Lead struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// Row converts the lead into a user_leads row.
func (l Lead) Row() rowstore.Row {
	row := rowstore.Row{
		"name":  l.Name,
		"email": l.Email,
		"phone": nil,
	}
	if l.Phone != nil {
		row["phone"] = *l.Phone
	}
	return row
}
