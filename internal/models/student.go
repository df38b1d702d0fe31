package models

// Student represents a registered student. GuardianID is set only when
// the student was registered together with a guardian (minors).
type Student struct {
	Person
	ID               int64  `db:"id" json:"id"`
	RollNo           string `db:"roll_no" json:"roll_no"`
	BirthCertificate string `db:"birth_certificate_no" json:"birth_certificate_no"`
	TargetSubjects   string `db:"target_subjects" json:"target_subjects"`
	Gender           string `db:"gender" json:"gender"`
	MaritalStatus    string `db:"marital_status" json:"marital_status"`
	GuardianID       *int64 `db:"guardian_id" json:"guardian_id,omitempty"`
	ProfileImagePath string `db:"profile_image_path" json:"-"`
	ProfileImage     []byte `db:"-" json:"profile_image,omitempty"`
}

// Guardian represents a student's registered guardian.
type Guardian struct {
	Person
	ID            int64  `db:"id" json:"id"`
	Gender        string `db:"gender" json:"gender"`
	MaritalStatus string `db:"marital_status" json:"marital_status"`
	StudentID     *int64 `db:"student_id" json:"student_id,omitempty"`
}

// StudentWithGuardian is the composed detail payload for a student.
type StudentWithGuardian struct {
	Student  *Student  `json:"student"`
	Guardian *Guardian `json:"guardian,omitempty"`
}

// RegistrationResult reports the outcome of a registration attempt.
type RegistrationResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StudentID  int64  `json:"student_id,omitempty"`
	GuardianID *int64 `json:"guardian_id,omitempty"`
}
