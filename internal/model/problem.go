package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// swagger:model Problem
type Problem struct {
	UUIDBase
	Title        string     `gorm:"size:200;not null" json:"title"`
	Slug         string     `gorm:"size:200;unique;not null" json:"slug"`
	Difficulty   Difficulty `gorm:"size:20;not null" json:"difficulty"`
	Frequency    string     `gorm:"size:50;default:'умеренно'" json:"frequency"`
	Statement    string     `gorm:"type:text" json:"statement"`
	StarterCode  string     `gorm:"type:text" json:"starterCode"`
	FunctionName string     `gorm:"size:100" json:"functionName"`
	Tags         string     `gorm:"size:500" json:"-"`
	VideoURL     string     `gorm:"size:500" json:"videoUrl"`
	SolutionMD   string     `gorm:"type:text" json:"solutionMd"`
	Published    bool       `gorm:"default:false" json:"published"`

	Tests []ProblemTest `gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE" json:"tests,omitempty"`
}

func (Problem) TableName() string {
	return "problems"
}

// ProblemTest is one ordered fixture: a JSON-encoded input array and the
// JSON-encoded expected return value.
// swagger:model ProblemTest
type ProblemTest struct {
	UUIDBase
	ProblemID    string `gorm:"size:36;index;not null" json:"problemId"`
	OrderIndex   int    `gorm:"not null;default:0" json:"order"`
	InputJSON    string `gorm:"type:text;not null" json:"inputJson"`
	ExpectedJSON string `gorm:"type:text;not null" json:"expectedJson"`
}

func (ProblemTest) TableName() string {
	return "problem_tests"
}
