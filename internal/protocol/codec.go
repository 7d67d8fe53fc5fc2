package protocol

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrMalformed marks a frame that could not be decoded at all. Connections
// receiving one are terminated.
var ErrMalformed = errors.New("malformed frame")

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

var clientDecoders = map[string]func(json.RawMessage) (ClientMessage, error){
	KindRegister:     decodeClient[Register],
	KindLogin:        decodeClient[Login],
	KindLogout:       decodeClient[Logout],
	KindMove:         decodeClient[Move],
	KindLook:         decodeClient[Look],
	KindSay:          decodeClient[Say],
	KindAttackToggle: decodeClient[AttackToggle],
	KindSelectTarget: decodeClient[SelectTarget],
	KindUseSkill:     decodeClient[UseSkill],
	KindCastSpell:    decodeClient[CastSpell],
	KindPickup:       decodeClient[Pickup],
	KindDrop:         decodeClient[Drop],
	KindEquip:        decodeClient[Equip],
	KindUseItem:      decodeClient[UseItem],
	KindBuy:          decodeClient[Buy],
	KindSell:         decodeClient[Sell],
	KindTrain:        decodeClient[Train],
	KindSearch:       decodeClient[Search],
	KindUnlock:       decodeClient[Unlock],
	KindInteract:     decodeClient[Interact],
	KindRest:         decodeClient[Rest],
	KindPing:         decodeClient[Ping],
	KindShutdown:     decodeClient[Shutdown],
}

var serverDecoders = map[string]func(json.RawMessage) (ServerMessage, error){
	KindRoomInfo:          decodeServer[RoomInfo],
	KindMapData:           decodeServer[MapData],
	KindMoveResult:        decodeServer[MoveResult],
	KindCombat:            decodeServer[Combat],
	KindSkillEffect:       decodeServer[SkillEffect],
	KindSpellEffect:       decodeServer[SpellEffect],
	KindEffectTick:        decodeServer[EffectTick],
	KindInventory:         decodeServer[Inventory],
	KindRoomItems:         decodeServer[RoomItems],
	KindNPCEntered:        decodeServer[NPCEntered],
	KindNPCLeft:           decodeServer[NPCLeft],
	KindNPCDied:           decodeServer[NPCDied],
	KindPlayerEntered:     decodeServer[PlayerEntered],
	KindPlayerLeft:        decodeServer[PlayerLeft],
	KindChat:              decodeServer[Chat],
	KindLevelUp:           decodeServer[LevelUp],
	KindSystem:            decodeServer[System],
	KindError:             decodeServer[Error],
	KindCatalogSync:       decodeServer[CatalogSync],
	KindExitChanged:       decodeServer[ExitChanged],
	KindShutdownCountdown: decodeServer[ShutdownCountdown],
	KindPong:              decodeServer[Pong],
}

func decodeClient[T ClientMessage](data json.RawMessage) (ClientMessage, error) {
	var m T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeServer[T ServerMessage](data json.RawMessage) (ServerMessage, error) {
	var m T
	if len(data) > 0 {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// DecodeClient decodes a JSON envelope into a client message.
func DecodeClient(frame []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec, ok := clientDecoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrMalformed, env.Type)
	}
	msg, err := dec(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformed, env.Type, err)
	}
	return msg, nil
}

// DecodeServer decodes a JSON envelope into a server message.
func DecodeServer(frame []byte) (ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	dec, ok := serverDecoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrMalformed, env.Type)
	}
	msg, err := dec(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformed, env.Type, err)
	}
	return msg, nil
}

// Encode wraps a server message in its envelope.
func Encode(msg ServerMessage) ([]byte, error) {
	return encode(msg.Kind(), msg)
}

// EncodeClient wraps a client message in its envelope.
func EncodeClient(msg ClientMessage) ([]byte, error) {
	return encode(msg.Kind(), msg)
}

func encode(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", kind, err)
	}
	out, err := json.Marshal(envelope{Type: kind, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshalling envelope: %w", err)
	}
	return out, nil
}
