package models

type Section struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	QuizSessionID uint       `gorm:"not null;index" json:"quiz_session_id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	OrderNum      int        `gorm:"not null;default:0" json:"order_num"`
	Questions     []Question `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}
