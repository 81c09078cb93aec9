package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&SimcoreInfo{},
	&Run{},
	&Vehicle{},
	&VehicleState{},
	&AttackEvent{},
	&NuclearStrikeEvent{},
	&KillEvent{},
}

// SimcoreInfo records the schema version of the database.
type SimcoreInfo struct {
	gorm.Model
	SchemaVersion string `json:"schemaVersion" gorm:"size:64"`
}

func (*SimcoreInfo) TableName() string {
	return "simcore_infos"
}

// Run is one execution of a scenario.
type Run struct {
	gorm.Model
	Name         string          `json:"name" gorm:"size:200"`
	ScenarioPath string          `json:"scenarioPath" gorm:"size:512"`
	StartTime    time.Time       `json:"startTime" gorm:"index:idx_run_start"`
	Ticks        uint            `json:"ticks"`
	MapSize      float64         `json:"mapSize"`
	Tag          string          `json:"tag" gorm:"size:127"`
	Rules        datatypes.JSON  `json:"rules"`
	OriginLon    sql.NullFloat64 `json:"originLon" gorm:"default:NULL"`
	OriginLat    sql.NullFloat64 `json:"originLat" gorm:"default:NULL"`

	// filled in by EndRun
	EndTick uint   `json:"endTick"`
	Winner  string `json:"winner" gorm:"size:16"`

	AttackEvents        []AttackEvent
	NuclearStrikeEvents []NuclearStrikeEvent
	KillEvents          []KillEvent
}

func (*Run) TableName() string {
	return "runs"
}

// Vehicle is keyed by the run and the engine-assigned vehicle id.
type Vehicle struct {
	RunID     uint           `json:"runId" gorm:"primaryKey;autoIncrement:false"`
	ObjectID  int64          `json:"vehicleId" gorm:"primaryKey;autoIncrement:false"`
	Run       Run            `gorm:"foreignkey:RunID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	JoinTime  time.Time      `json:"joinTime" gorm:"NOT NULL;index:idx_vehicle_join_time"`
	JoinTick  uint           `json:"joinTick"`
	Kind      string         `json:"kind" gorm:"size:16"`
	IsMy      bool           `json:"isMy"`
	Radius    float64        `json:"radius"`
}

func (*Vehicle) TableName() string {
	return "vehicles"
}

type VehicleState struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time            time.Time `json:"time"`
	RunID           uint      `json:"runId" gorm:"index:idx_vehiclestate_run_id"`
	Run             Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Tick            uint      `json:"tick" gorm:"index:idx_vehiclestate_tick"`
	VehicleObjectID int64     `json:"vehicleId" gorm:"index:idx_vehiclestate_vehicle_id"`
	Vehicle         Vehicle   `gorm:"foreignkey:RunID,VehicleObjectID;references:RunID,ObjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Position     geom.Point     `json:"position"`
	Durability   int            `json:"durability"`
	RepairPool   int            `json:"repairPool"`
	Cooldown     int            `json:"cooldown"`
	Groups       datatypes.JSON `json:"groups"` // group ids as a JSON array
	Moving       bool           `json:"moving"`
	Rotating     bool           `json:"rotating"`
	ActualSpeed  float32        `json:"actualSpeed"`
	ActualVision float32        `json:"actualVision"`
	MoveRejected bool           `json:"moveRejected"` // a move was attempted and refused this tick
}

func (*VehicleState) TableName() string {
	return "vehicle_states"
}

type AttackEvent struct {
	ID    uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time  time.Time `json:"time"`
	RunID uint      `json:"runId" gorm:"index:idx_attackevent_run_id"`
	Run   Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Tick  uint      `json:"tick" gorm:"index:idx_attackevent_tick"`

	AttackerObjectID int64   `json:"attackerId" gorm:"index:idx_attackevent_attacker"`
	TargetObjectID   int64   `json:"targetId" gorm:"index:idx_attackevent_target"`
	Damage           int     `json:"damage"`
	Distance         float32 `json:"distance"`
}

func (*AttackEvent) TableName() string {
	return "attack_events"
}

type NuclearStrikeEvent struct {
	ID    uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time  time.Time `json:"time"`
	RunID uint      `json:"runId" gorm:"index:idx_nuclearstrike_run_id"`
	Run   Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Tick  uint      `json:"tick" gorm:"index:idx_nuclearstrike_tick"`

	OrderedTick uint           `json:"orderedTick"`
	Center      geom.Point     `json:"center"`
	Radius      float64        `json:"radius"`
	Hits        datatypes.JSON `json:"hits"` // [{vehicleId, damage}]
	TotalDamage int            `json:"totalDamage"`
}

func (*NuclearStrikeEvent) TableName() string {
	return "nuclear_strike_events"
}

type KillEvent struct {
	ID    uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time  time.Time `json:"time"`
	RunID uint      `json:"runId" gorm:"index:idx_killevent_run_id"`
	Run   Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Tick  uint      `json:"tick" gorm:"index:idx_killevent_tick;"`

	VictimObjectID int64         `json:"victimId" gorm:"index:idx_killevent_victim"`
	KillerObjectID sql.NullInt64 `json:"killerId" gorm:"index:idx_killevent_killer;default:NULL"` // NULL for nuclear kills

	Position  geom.Point `json:"position"`
	EventText string     `json:"eventText" gorm:"size:80"`
}

func (*KillEvent) TableName() string {
	return "kill_events"
}
