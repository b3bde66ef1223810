package dto

// CreateSubjectRequest represents the payload for creating a subject.
type CreateSubjectRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Units       float64 `json:"units" binding:"required"`
	Description *string `json:"description"`
}

// UpdateSubjectRequest represents a partial subject update.
type UpdateSubjectRequest struct {
	Name        *string  `json:"name"`
	Units       *float64 `json:"units"`
	Description *string  `json:"description"`
}
