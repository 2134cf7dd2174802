package model

import "time"

// Response is a submitted set of answers for one form. Answers map question
// ids to values: a string for every type except CHECKBOXES, which carries a
// list of selected options.
type Response struct {
	ID      string                 `json:"id" bson:"_id,omitempty"`
	FormID  string                 `json:"formId" bson:"formId"`
	UserID  string                 `json:"userId,omitempty" bson:"userId,omitempty"`
	Answers map[string]interface{} `json:"answers" bson:"answers"`
	// GoogleSheetRowNumber is the 1-based row written by the first successful
	// sheet append. Zero means the response was never synced; updates then
	// skip the sheet rather than retry as an append.
	GoogleSheetRowNumber int64     `json:"googleSheetRowNumber,omitempty" bson:"googleSheetRowNumber,omitempty"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`

	// RedirectURL is the owning form's post-submit hint, set on the way out
	// of a submission and never persisted.
	RedirectURL string `json:"redirectUrl,omitempty" bson:"-"`
}
