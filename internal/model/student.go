package model

// Student 学生表 — 对应 students
// student_id 为业务主键，按不透明字符串处理（禁止按数字解释）
type Student struct {
	StudentID            string   `gorm:"column:student_id;type:text;primaryKey" json:"student_id"`
	AttendancePercentage float64  `gorm:"column:attendance_percentage;not null"  json:"attendance_percentage"`
	FeeStatus            string   `gorm:"column:fee_status;not null"             json:"fee_status"`
	Name                 *string  `gorm:"column:name"                            json:"name,omitempty"`
	PRN                  *string  `gorm:"column:prn"                             json:"prn,omitempty"`
	Sem1Att              *float64 `gorm:"column:sem1_att"                        json:"sem1_att,omitempty"`
	Sem2Att              *float64 `gorm:"column:sem2_att"                        json:"sem2_att,omitempty"`
	Sem3Att              *float64 `gorm:"column:sem3_att"                        json:"sem3_att,omitempty"`
	Sem4Att              *float64 `gorm:"column:sem4_att"                        json:"sem4_att,omitempty"`
	Sem5Att              *float64 `gorm:"column:sem5_att"                        json:"sem5_att,omitempty"`
	Sem6Att              *float64 `gorm:"column:sem6_att"                        json:"sem6_att,omitempty"`
	Sem1CGPA             *float64 `gorm:"column:sem1_cgpa"                       json:"sem1_cgpa,omitempty"`
	Sem2CGPA             *float64 `gorm:"column:sem2_cgpa"                       json:"sem2_cgpa,omitempty"`
	Sem3CGPA             *float64 `gorm:"column:sem3_cgpa"                       json:"sem3_cgpa,omitempty"`
	Sem4CGPA             *float64 `gorm:"column:sem4_cgpa"                       json:"sem4_cgpa,omitempty"`
	Sem5CGPA             *float64 `gorm:"column:sem5_cgpa"                       json:"sem5_cgpa,omitempty"`
	Sem6CGPA             *float64 `gorm:"column:sem6_cgpa"                       json:"sem6_cgpa,omitempty"`
	Credits              *float64 `gorm:"column:credits"                         json:"credits,omitempty"`
	Wellbeing            *float64 `gorm:"column:wellbeing"                       json:"wellbeing,omitempty"`

	// 关联
	TestScores []TestScore `gorm:"foreignKey:StudentID;references:StudentID" json:"test_scores,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// TestScore 单次测验成绩表 — 对应 test_scores
// 多对一关联 Student；只增不改，随学生级联删除
type TestScore struct {
	TestID     int64   `gorm:"column:test_id;primaryKey;autoIncrement" json:"test_id"`
	StudentID  string  `gorm:"column:student_id;type:text;not null"    json:"student_id"`
	Subject    string  `gorm:"column:subject;not null"                 json:"subject"`
	TestScore  float64 `gorm:"column:test_score;not null"              json:"test_score"`
	TestNumber int     `gorm:"column:test_number;not null"             json:"test_number"`
}

// TableName 指定表名
func (TestScore) TableName() string { return "test_scores" }

// StudentAggregate 学生聚合视图（Student ⨝ mean(test_score)）
// 不落库，由 StudentRepository 的 JOIN 查询产出，是风险评分的输入单元
type StudentAggregate struct {
	Student
	AvgTestScore float64 `gorm:"column:avg_test_score" json:"avg_test_score"`
}
