package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // периодический сигнал, что процесс жив
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI command.
	ScopeDriver Scope = iota + 1
	// ScopePhase covers one translation phase of one unit.
	ScopePhase
	// ScopeUnit covers one translation unit.
	ScopeUnit
	// ScopeDirective marks single directives such as #include.
	ScopeDirective
)

var scopeNames = [...]string{
	ScopeDriver:    "driver",
	ScopePhase:     "phase",
	ScopeUnit:      "unit",
	ScopeDirective: "directive",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Level controls which scopes are recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ничего не пишет сам; ring сбрасывается при панике
	LevelPhase        // driver и фазы
	LevelDetail       // плюс единицы трансляции
	LevelDebug        // плюс директивы
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// deepest is the finest scope visible at each level.
var deepest = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopePhase,
	LevelDetail: ScopeUnit,
	LevelDebug:  ScopeDirective,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel maps the --trace-level flag value.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(deepest) {
		return false
	}
	return scope != 0 && scope <= deepest[l]
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // монотонный номер, присваивается при записи
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корня
	GID      uint64 // горутина, открывшая span
	Name     string // "phase4", "unit", "include", ...
	Detail   string
	Extra    map[string]string
}
