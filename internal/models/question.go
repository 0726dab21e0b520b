package models

const (
	QuestionTypeSingle    = "single"
	QuestionTypeMulti     = "multi"
	QuestionTypeFillBlank = "fill_blank"
)

// BlankOptions holds the choice list for each blank of a fill_blank question,
// in blank order. Serialized as a JSON text column.
type BlankOptions [][]string

type Question struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	SectionID     uint         `gorm:"not null;index" json:"section_id"`
	Type          string       `gorm:"size:20;not null;default:'single'" json:"type"`
	Text          string       `gorm:"type:text;not null" json:"text"`
	OptionA       string       `gorm:"size:500;default:''" json:"option_a"`
	OptionB       string       `gorm:"size:500;default:''" json:"option_b"`
	OptionC       string       `gorm:"size:500;default:''" json:"option_c"`
	OptionD       string       `gorm:"size:500;default:''" json:"option_d"`
	CorrectAnswer string       `gorm:"size:500;not null" json:"correct_answer,omitempty"`
	BlankOptions  BlankOptions `gorm:"type:text;serializer:json" json:"blank_options,omitempty"`
	Points        int          `gorm:"not null;default:1" json:"points"`
	OrderNum      int          `gorm:"not null;default:0" json:"order_num"`
}

// Options returns the non-empty labeled options in A-D order.
func (q *Question) Options() []LabeledOption {
	all := []LabeledOption{
		{Label: "A", Text: q.OptionA},
		{Label: "B", Text: q.OptionB},
		{Label: "C", Text: q.OptionC},
		{Label: "D", Text: q.OptionD},
	}
	opts := make([]LabeledOption, 0, 4)
	for _, o := range all {
		if o.Text != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

type LabeledOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}
