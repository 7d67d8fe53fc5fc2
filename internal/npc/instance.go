package npc

import (
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/protocol"
)

// Instance is one live NPC.
type Instance struct {
	Id         string
	TemplateId string
	Template   *Template

	RoomId  string
	HP      int
	MaxHP   int
	Hostile bool

	Mode      Mode
	PriorMode Mode

	// TargetId is the session the NPC is fighting or chasing.
	TargetId string
	// Stunned NPCs lose their next attack.
	Stunned bool

	patrolIndex int
	pursuit     *pursuit

	// homeRoom is set for instances spawned by a room; they respawn there.
	homeRoom string
}

type pursuit struct {
	ticks int
	lost  int
}

func (i *Instance) Name() string {
	return i.Template.Name
}

func (i *Instance) Alive() bool {
	return i.HP > 0
}

// ApplyDamage lowers hp, never below zero, and returns the damage dealt.
func (i *Instance) ApplyDamage(n int) int {
	if n > i.HP {
		n = i.HP
	}
	i.HP -= n
	return n
}

// Stat returns one of the template's stats.
func (i *Instance) Stat(st game.Stat) int {
	return i.Template.Stats[st]
}

// Provoke turns the NPC on a session.
func (i *Instance) Provoke(sessionId string) {
	i.Hostile = true
	if i.TargetId == "" {
		i.TargetId = sessionId
	}
}

// Pursuing reports whether the NPC is chasing a target.
func (i *Instance) Pursuing() bool {
	return i.Mode == ModePursuit
}

// Info is the client view of the NPC.
func (i *Instance) Info() protocol.NPCInfo {
	return protocol.NPCInfo{
		Id:      i.Id,
		Name:    i.Template.Name,
		Hostile: i.Hostile,
		HP:      i.HP,
		MaxHP:   i.MaxHP,
	}
}
