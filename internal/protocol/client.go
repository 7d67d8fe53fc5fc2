package protocol

// ClientMessage is one decoded inbound frame. The set of implementations is
// closed; only types in this package satisfy it.
type ClientMessage interface {
	Kind() string
	clientMessage()
}

// Client message kinds, used as the envelope type on the wire.
const (
	KindRegister     = "register"
	KindLogin        = "login"
	KindLogout       = "logout"
	KindMove         = "move"
	KindLook         = "look"
	KindSay          = "say"
	KindAttackToggle = "attack"
	KindSelectTarget = "target"
	KindUseSkill     = "skill"
	KindCastSpell    = "cast"
	KindPickup       = "pickup"
	KindDrop         = "drop"
	KindEquip        = "equip"
	KindUseItem      = "use"
	KindBuy          = "buy"
	KindSell         = "sell"
	KindTrain        = "train"
	KindSearch       = "search"
	KindUnlock       = "unlock"
	KindInteract     = "interact"
	KindRest         = "rest"
	KindPing         = "ping"
	KindShutdown     = "shutdown"
)

type Register struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CharacterName string `json:"character_name"`
	Race          string `json:"race"`
	Class         string `json:"class"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Logout struct{}

type Move struct {
	Direction string `json:"direction"`
}

type Look struct{}

type Say struct {
	Text string `json:"text"`
}

// AttackToggle flips the session's attack mode.
type AttackToggle struct{}

type SelectTarget struct {
	TargetId string `json:"target_id"`
}

type UseSkill struct {
	SkillId   string `json:"skill_id"`
	TargetId  string `json:"target_id,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type CastSpell struct {
	SpellId  string `json:"spell_id"`
	TargetId string `json:"target_id,omitempty"`
}

type Pickup struct {
	ItemId string `json:"item_id"`
}

type Drop struct {
	ItemId string `json:"item_id"`
}

type Equip struct {
	ItemId string `json:"item_id"`
}

type UseItem struct {
	ItemId string `json:"item_id"`
}

type Buy struct {
	VendorId string `json:"vendor_id"`
	ItemId   string `json:"item_id"`
}

type Sell struct {
	VendorId string `json:"vendor_id"`
	ItemId   string `json:"item_id"`
}

type Train struct {
	TrainerId string `json:"trainer_id"`
	SkillId   string `json:"skill_id"`
}

// Search rolls perception against every hidden exit in the current room.
type Search struct{}

type Unlock struct {
	Direction string `json:"direction"`
}

type Interact struct {
	FeatureId string `json:"feature_id"`
}

type Rest struct{}

type Ping struct {
	Nonce int64 `json:"nonce,omitempty"`
}

// Shutdown arms the server shutdown countdown. Admin only.
type Shutdown struct {
	Ticks int `json:"ticks"`
}

func (Register) Kind() string     { return KindRegister }
func (Login) Kind() string        { return KindLogin }
func (Logout) Kind() string       { return KindLogout }
func (Move) Kind() string         { return KindMove }
func (Look) Kind() string         { return KindLook }
func (Say) Kind() string          { return KindSay }
func (AttackToggle) Kind() string { return KindAttackToggle }
func (SelectTarget) Kind() string { return KindSelectTarget }
func (UseSkill) Kind() string     { return KindUseSkill }
func (CastSpell) Kind() string    { return KindCastSpell }
func (Pickup) Kind() string       { return KindPickup }
func (Drop) Kind() string         { return KindDrop }
func (Equip) Kind() string        { return KindEquip }
func (UseItem) Kind() string      { return KindUseItem }
func (Buy) Kind() string          { return KindBuy }
func (Sell) Kind() string         { return KindSell }
func (Train) Kind() string        { return KindTrain }
func (Search) Kind() string       { return KindSearch }
func (Unlock) Kind() string       { return KindUnlock }
func (Interact) Kind() string     { return KindInteract }
func (Rest) Kind() string         { return KindRest }
func (Ping) Kind() string         { return KindPing }
func (Shutdown) Kind() string     { return KindShutdown }

func (Register) clientMessage()     {}
func (Login) clientMessage()        {}
func (Logout) clientMessage()       {}
func (Move) clientMessage()         {}
func (Look) clientMessage()         {}
func (Say) clientMessage()          {}
func (AttackToggle) clientMessage() {}
func (SelectTarget) clientMessage() {}
func (UseSkill) clientMessage()     {}
func (CastSpell) clientMessage()    {}
func (Pickup) clientMessage()       {}
func (Drop) clientMessage()         {}
func (Equip) clientMessage()        {}
func (UseItem) clientMessage()      {}
func (Buy) clientMessage()          {}
func (Sell) clientMessage()         {}
func (Train) clientMessage()        {}
func (Search) clientMessage()       {}
func (Unlock) clientMessage()       {}
func (Interact) clientMessage()     {}
func (Rest) clientMessage()         {}
func (Ping) clientMessage()         {}
func (Shutdown) clientMessage()     {}
