package model

// Chapter badges. A chapter with BadgeSection and no parent slug is a
// top-level group in the roadmap; everything else is a leaf chapter.
const (
	BadgeChapter = "Глава"
	BadgeSection = "Раздел"
)

// LearningChapter is one node of the two-level roadmap tree. Parent linkage is
// by slug value, not a foreign key: slugs are the stable public identity.
// swagger:model LearningChapter
type LearningChapter struct {
	UUIDBase
	Slug       string `gorm:"size:200;unique;not null" json:"slug"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Badge      string `gorm:"size:50;default:'Глава'" json:"badge"`
	ParentSlug string `gorm:"size:200;index" json:"parentSlug"`
	IntroText  string `gorm:"type:text" json:"introText"`
	OrderNum   int    `gorm:"not null;default:0" json:"order"`
}

func (LearningChapter) TableName() string {
	return "learning_chapters"
}

func (c *LearningChapter) IsSection() bool {
	return c.Badge == BadgeSection && c.ParentSlug == ""
}

// LearningSection is a content block inside one chapter page (unrelated to
// the "Раздел" tree node): a titled markdown unit with optional video embeds.
// swagger:model LearningSection
type LearningSection struct {
	UUIDBase
	ChapterID  string `gorm:"size:36;index;not null" json:"chapterId"`
	Anchor     string `gorm:"size:200;not null" json:"anchor"`
	Title      string `gorm:"size:200;not null" json:"title"`
	TextMD     string `gorm:"type:text" json:"textMd"`
	VideosJSON string `gorm:"type:text;default:'[]'" json:"-"`
	OrderNum   int    `gorm:"not null;default:0" json:"order"`
}

func (LearningSection) TableName() string {
	return "learning_sections"
}
