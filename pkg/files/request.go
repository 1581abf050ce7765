package files

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// UploadRequest is the explicit schema for a file/folder creation request.
//
// Field order matters: validation short-circuits on the first violated
// rule, so name is checked before type and type before data, matching the
// documented check order.
type UploadRequest struct {
	// Name of the file or folder. Required.
	Name string `json:"name" validate:"required"`

	// Type is one of folder, file, image. Required; values outside the
	// enum are reported the same as an absent type.
	Type string `json:"type" validate:"required,oneof=folder file image"`

	// Data is the base64-encoded payload. Required for files and images,
	// ignored for folders.
	Data string `json:"data" validate:"required_unless=Type folder"`

	// ParentID references the containing folder; empty or "0" means the
	// root. Checked against the metadata store by the pipeline, not here.
	ParentID string `json:"parentId"`

	// IsPublic marks the document publicly readable. Defaults to false.
	IsPublic bool `json:"isPublic"`
}

// UnmarshalJSON accepts parentId as either a JSON string or a JSON number.
// The root sentinel is conventionally sent as the number 0, so numbers keep
// their literal text ("0" stays the root, "7" is checked against the store
// like any other ID and fails the parent lookup). A null or absent parentId
// means the root.
func (r *UploadRequest) UnmarshalJSON(data []byte) error {
	type plain UploadRequest
	aux := struct {
		ParentID json.RawMessage `json:"parentId"`
		*plain
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.ParentID) > 0 {
		var s string
		if err := json.Unmarshal(aux.ParentID, &s); err == nil {
			// String value, or null (which leaves s empty).
			r.ParentID = s
		} else {
			r.ParentID = string(aux.ParentID)
		}
	}
	return nil
}

// Validate checks the request shape and returns the first violated rule as
// a pipeline Error. The parent-existence check is a store read and happens
// in Service.Upload, strictly after this shape check.
func (r *UploadRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return ErrUpload
	}

	// Fields validate in declaration order, so the first entry names the
	// first violated rule.
	switch validationErrs[0].Field() {
	case "Name":
		return ErrMissingName
	case "Type":
		return ErrMissingType
	case "Data":
		return ErrMissingData
	default:
		return ErrUpload
	}
}
