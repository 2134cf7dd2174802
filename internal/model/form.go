package model

import "time"

// FormStatus is the lifecycle state of a form
type FormStatus string

const (
	FormDraft       FormStatus = "DRAFT"
	FormPublished   FormStatus = "PUBLISHED"
	FormUnpublished FormStatus = "UNPUBLISHED"
	FormArchived    FormStatus = "ARCHIVED"
	FormDeleted     FormStatus = "DELETED"
)

// QuestionType identifies how a question is asked and validated
type QuestionType string

const (
	QuestionShortAnswer    QuestionType = "SHORT_ANSWER"
	QuestionParagraph      QuestionType = "PARAGRAPH"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionCheckboxes     QuestionType = "CHECKBOXES"
	QuestionDropdown       QuestionType = "DROPDOWN"
	QuestionDate           QuestionType = "DATE"
	QuestionTime           QuestionType = "TIME"
)

// ShortAnswerMaxLen caps SHORT_ANSWER values
const ShortAnswerMaxLen = 255

// MinChoiceOptions is the save-time floor for option-carrying question types
const MinChoiceOptions = 2

// NeedsOptions reports whether the type must carry an options list
func (t QuestionType) NeedsOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckboxes || t == QuestionDropdown
}

// AllowsMultiple reports whether an answer may carry several selected options
func (t QuestionType) AllowsMultiple() bool {
	return t == QuestionCheckboxes
}

// Valid reports whether the type is one the builder supports
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortAnswer, QuestionParagraph, QuestionMultipleChoice,
		QuestionCheckboxes, QuestionDropdown, QuestionDate, QuestionTime:
		return true
	}
	return false
}

// Question is a single question on a form. IDs are stable across edits so
// stored answers keep pointing at the right question.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Title    string       `json:"title" bson:"title"`
	Type     QuestionType `json:"type" bson:"type"`
	Required bool         `json:"required" bson:"required"`
	Options  []string     `json:"options,omitempty" bson:"options,omitempty"`
}

// Form is a persistent template created by an admin
type Form struct {
	ID                string     `json:"id" bson:"_id,omitempty"`
	Title             string     `json:"title" bson:"title"`
	Description       string     `json:"description,omitempty" bson:"description,omitempty"`
	Questions         []Question `json:"questions" bson:"questions"`
	Status            FormStatus `json:"status" bson:"status"`
	AllowEditResponse bool       `json:"allowEditResponse" bson:"allowEditResponse"`
	GoogleSheetURL    string     `json:"googleSheetUrl,omitempty" bson:"googleSheetUrl,omitempty"`
	RedirectURL       string     `json:"redirectUrl,omitempty" bson:"redirectUrl,omitempty"`
	CreatedBy         string     `json:"createdBy" bson:"createdBy"`
	CreatedAt         time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// QuestionByID returns the question with the given id, or nil
func (f *Form) QuestionByID(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}
