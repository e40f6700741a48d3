package domain

const (
	DefaultPrimarySport = "Soccer"
	DefaultAcademyType  = "General"
)

// Profile is the role-specific record created together with an Account.
// The set of implementations is closed: only this package can add one.
type Profile interface {
	ProfileRole() Role
	OwnerID() string
	isProfile()
}

type AthleteProfile struct {
	ID              string   `json:"id"`
	AccountID       string   `json:"accountId"`
	PrimarySport    string   `json:"primarySport"`
	SecondarySports []string `json:"secondarySports"`
	Positions       []string `json:"positions"`
}

type CoachProfile struct {
	ID             string   `json:"id"`
	AccountID      string   `json:"accountId"`
	Specialization []string `json:"specialization"`
	Qualifications []string `json:"qualifications"`
}

type AcademyProfile struct {
	ID         string   `json:"id"`
	AccountID  string   `json:"accountId"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Sports     []string `json:"sports"`
	AgeGroups  []string `json:"ageGroups"`
	Facilities []string `json:"facilities"`
}

func (AthleteProfile) ProfileRole() Role { return RoleAthlete }
func (p AthleteProfile) OwnerID() string { return p.AccountID }
func (AthleteProfile) isProfile()        {}
func (CoachProfile) ProfileRole() Role   { return RoleCoach }
func (p CoachProfile) OwnerID() string   { return p.AccountID }
func (CoachProfile) isProfile()          {}
func (AcademyProfile) ProfileRole() Role { return RoleAcademy }
func (p AcademyProfile) OwnerID() string { return p.AccountID }
func (AcademyProfile) isProfile()        {}

func NewAthleteProfile(id string, acc Account) AthleteProfile {
	return AthleteProfile{
		ID:              id,
		AccountID:       acc.ID,
		PrimarySport:    DefaultPrimarySport,
		SecondarySports: []string{},
		Positions:       []string{},
	}
}

func NewCoachProfile(id string, acc Account) CoachProfile {
	return CoachProfile{
		ID:             id,
		AccountID:      acc.ID,
		Specialization: []string{},
		Qualifications: []string{},
	}
}

func NewAcademyProfile(id string, acc Account) AcademyProfile {
	return AcademyProfile{
		ID:         id,
		AccountID:  acc.ID,
		Name:       acc.Name,
		Type:       DefaultAcademyType,
		Sports:     []string{},
		AgeGroups:  []string{},
		Facilities: []string{},
	}
}

// NewProfile 按角色分发默认档案；未知角色返回 InternalError（校验之后不应出现）
func NewProfile(id string, acc Account) (Profile, error) {
	switch acc.Role {
	case RoleAthlete:
		return NewAthleteProfile(id, acc), nil
	case RoleCoach:
		return NewCoachProfile(id, acc), nil
	case RoleAcademy:
		return NewAcademyProfile(id, acc), nil
	}
	return nil, ErrUnknownRole(acc.Role)
}
