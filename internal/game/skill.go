package game

// PendingSkill is the skill a session has queued for its next combat round.
// The zero value of the interface, nil, is never stored; NoSkill is used
// instead.
type PendingSkill interface {
	SkillId() string
	pendingSkill()
}

type NoSkill struct{}

type BashSkill struct {
	Target string
}

type KickSkill struct {
	Target    string
	Direction Direction
}

type MeditateSkill struct{}

type TrackSkill struct {
	Target string
}

const (
	SkillBash     = "bash"
	SkillKick     = "kick"
	SkillMeditate = "meditate"
	SkillTrack    = "track"
	SkillHide     = "hide"
)

func (NoSkill) SkillId() string       { return "" }
func (BashSkill) SkillId() string     { return SkillBash }
func (KickSkill) SkillId() string     { return SkillKick }
func (MeditateSkill) SkillId() string { return SkillMeditate }
func (TrackSkill) SkillId() string    { return SkillTrack }

func (NoSkill) pendingSkill()       {}
func (BashSkill) pendingSkill()     {}
func (KickSkill) pendingSkill()     {}
func (MeditateSkill) pendingSkill() {}
func (TrackSkill) pendingSkill()    {}
