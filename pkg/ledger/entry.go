package ledger

import "time"

// Overlay 叠加到截图上的时间戳（位置为相对图像宽高的比例）
type Overlay struct {
	Text       string
	X          float64
	Y          float64
	Color      string // #RRGGBB
	Background string // #RRGGBBAA
	FontSize   int
}

// Entry 一条截图证据
type Entry struct {
	ID            int
	FileName      string
	CapturedAt    time.Time
	Comment       string
	Deleted       bool
	Overlay       *Overlay
	CaptureMethod string

	// rawTime 无法解析的原始时间戳文本，写回时原样保留
	rawTime string
}

func (e Entry) clone() Entry {
	if e.Overlay != nil {
		o := *e.Overlay
		e.Overlay = &o
	}
	return e
}

// Snapshot 台账的完整状态
type Snapshot struct {
	Entries []Entry
	NextID  int
}

func emptySnapshot() Snapshot {
	return Snapshot{Entries: []Entry{}, NextID: 1}
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{Entries: make([]Entry, len(s.Entries)), NextID: s.NextID}
	for i, e := range s.Entries {
		out.Entries[i] = e.clone()
	}
	return out
}

// normalize 保证 NextID 大于所有已用 ID
func (s *Snapshot) normalize() {
	if s.Entries == nil {
		s.Entries = []Entry{}
	}
	if s.NextID < 1 {
		s.NextID = 1
	}
	for _, e := range s.Entries {
		if e.ID >= s.NextID {
			s.NextID = e.ID + 1
		}
	}
}

func clampFraction(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
