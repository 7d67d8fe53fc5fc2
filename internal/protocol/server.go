package protocol

// ServerMessage is one outbound message. The set of implementations is closed.
type ServerMessage interface {
	Kind() string
	serverMessage()
}

// Server message kinds.
const (
	KindRoomInfo          = "room_info"
	KindMapData           = "map_data"
	KindMoveResult        = "move_result"
	KindCombat            = "combat"
	KindSkillEffect       = "skill_effect"
	KindSpellEffect       = "spell_effect"
	KindEffectTick        = "effect_tick"
	KindInventory         = "inventory"
	KindRoomItems         = "room_items"
	KindNPCEntered        = "npc_entered"
	KindNPCLeft           = "npc_left"
	KindNPCDied           = "npc_died"
	KindPlayerEntered     = "player_entered"
	KindPlayerLeft        = "player_left"
	KindChat              = "chat"
	KindLevelUp           = "level_up"
	KindSystem            = "system"
	KindError             = "error"
	KindCatalogSync       = "catalog_sync"
	KindExitChanged       = "exit_changed"
	KindShutdownCountdown = "shutdown_countdown"
	KindPong              = "pong"
)

// Error codes carried by Error messages.
const (
	CodeAuthRequired  = "auth_required"
	CodeInvalidInput  = "invalid_input"
	CodeRateLimited   = "rate_limited"
	CodeInternal      = "internal_error"
	CodeAlreadyOnline = "already_online"
)

type NPCInfo struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Hostile bool   `json:"hostile,omitempty"`
	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
}

type ItemInfo struct {
	InstanceId string `json:"instance_id"`
	ItemId     string `json:"item_id"`
	Name       string `json:"name"`
}

type FeatureInfo struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

type RoomInfo struct {
	RoomId      string        `json:"room_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Exits       []string      `json:"exits"`
	Players     []string      `json:"players,omitempty"`
	NPCs        []NPCInfo     `json:"npcs,omitempty"`
	Features    []FeatureInfo `json:"features,omitempty"`
}

type MapRoom struct {
	RoomId string            `json:"room_id"`
	Name   string            `json:"name"`
	Zone   string            `json:"zone,omitempty"`
	Exits  map[string]string `json:"exits"`
}

type MapData struct {
	Center string    `json:"center"`
	Rooms  []MapRoom `json:"rooms"`
}

type MoveResult struct {
	Success   bool   `json:"success"`
	Direction string `json:"direction"`
	Reason    string `json:"reason,omitempty"`
}

// Combat reports one resolved attack.
type Combat struct {
	Attacker string `json:"attacker"`
	Defender string `json:"defender"`
	Outcome  string `json:"outcome"`
	Damage   int    `json:"damage,omitempty"`
	Backstab bool   `json:"backstab,omitempty"`
}

type SkillEffect struct {
	SkillId string `json:"skill_id"`
	Actor   string `json:"actor"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
	Amount  int    `json:"amount,omitempty"`
}

type SpellEffect struct {
	SpellId string `json:"spell_id"`
	Caster  string `json:"caster"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
	Amount  int    `json:"amount,omitempty"`
}

// EffectTick reports one application of a timed effect. Expired is set on the
// final tick, after which the effect is gone.
type EffectTick struct {
	Name       string `json:"name"`
	EffectKind string `json:"kind"`
	Amount     int    `json:"amount,omitempty"`
	Remaining  int    `json:"remaining"`
	Expired    bool   `json:"expired,omitempty"`
	Message    string `json:"message"`
}

type Inventory struct {
	Items     []ItemInfo          `json:"items"`
	Equipment map[string]ItemInfo `json:"equipment,omitempty"`
	Gold      int                 `json:"gold"`
}

type RoomItems struct {
	RoomId string     `json:"room_id"`
	Items  []ItemInfo `json:"items"`
}

type NPCEntered struct {
	NPC  NPCInfo `json:"npc"`
	From string  `json:"from,omitempty"`
}

type NPCLeft struct {
	NPC       NPCInfo `json:"npc"`
	Direction string  `json:"direction,omitempty"`
}

type NPCDied struct {
	NPC    NPCInfo `json:"npc"`
	Killer string  `json:"killer,omitempty"`
}

type PlayerEntered struct {
	Name string `json:"name"`
	From string `json:"from,omitempty"`
}

type PlayerLeft struct {
	Name      string `json:"name"`
	Direction string `json:"direction,omitempty"`
}

type Chat struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type LevelUp struct {
	Level int `json:"level"`
}

type System struct {
	Message string `json:"message"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CatalogEntry struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type CatalogSync struct {
	Skills []CatalogEntry `json:"skills"`
	Spells []CatalogEntry `json:"spells"`
}

// ExitChanged reports a world timer transition or interactable reset.
type ExitChanged struct {
	RoomId    string `json:"room_id"`
	Direction string `json:"direction,omitempty"`
	Change    string `json:"change"`
	Message   string `json:"message"`
}

type ShutdownCountdown struct {
	TicksRemaining int `json:"ticks_remaining"`
}

type Pong struct {
	Nonce int64 `json:"nonce,omitempty"`
}

func (RoomInfo) Kind() string          { return KindRoomInfo }
func (MapData) Kind() string           { return KindMapData }
func (MoveResult) Kind() string        { return KindMoveResult }
func (Combat) Kind() string            { return KindCombat }
func (SkillEffect) Kind() string       { return KindSkillEffect }
func (SpellEffect) Kind() string       { return KindSpellEffect }
func (EffectTick) Kind() string        { return KindEffectTick }
func (Inventory) Kind() string         { return KindInventory }
func (RoomItems) Kind() string         { return KindRoomItems }
func (NPCEntered) Kind() string        { return KindNPCEntered }
func (NPCLeft) Kind() string           { return KindNPCLeft }
func (NPCDied) Kind() string           { return KindNPCDied }
func (PlayerEntered) Kind() string     { return KindPlayerEntered }
func (PlayerLeft) Kind() string        { return KindPlayerLeft }
func (Chat) Kind() string              { return KindChat }
func (LevelUp) Kind() string           { return KindLevelUp }
func (System) Kind() string            { return KindSystem }
func (Error) Kind() string             { return KindError }
func (CatalogSync) Kind() string       { return KindCatalogSync }
func (ExitChanged) Kind() string       { return KindExitChanged }
func (ShutdownCountdown) Kind() string { return KindShutdownCountdown }
func (Pong) Kind() string              { return KindPong }

func (RoomInfo) serverMessage()          {}
func (MapData) serverMessage()           {}
func (MoveResult) serverMessage()        {}
func (Combat) serverMessage()            {}
func (SkillEffect) serverMessage()       {}
func (SpellEffect) serverMessage()       {}
func (EffectTick) serverMessage()        {}
func (Inventory) serverMessage()         {}
func (RoomItems) serverMessage()         {}
func (NPCEntered) serverMessage()        {}
func (NPCLeft) serverMessage()           {}
func (NPCDied) serverMessage()           {}
func (PlayerEntered) serverMessage()     {}
func (PlayerLeft) serverMessage()        {}
func (Chat) serverMessage()              {}
func (LevelUp) serverMessage()           {}
func (System) serverMessage()            {}
func (Error) serverMessage()             {}
func (CatalogSync) serverMessage()       {}
func (ExitChanged) serverMessage()       {}
func (ShutdownCountdown) serverMessage() {}
func (Pong) serverMessage()              {}
