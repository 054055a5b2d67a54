package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName 台账文件名，与截图位于同一目录
const FileName = "evidencias_metadata.json"

// Store 台账持久化接口
type Store interface {
	// Load 读取快照；文件不存在时返回 os.ErrNotExist
	Load() (*Snapshot, error)
	Save(s *Snapshot) error
	Remove() error
	Path() string
}

// JSONStore 以 JSON 文件保存台账
type JSONStore struct {
	path string
}

// NewJSONStore 在 dir 下创建 JSON 存储
func NewJSONStore(dir string) *JSONStore {
	return &JSONStore{path: filepath.Join(dir, FileName)}
}

// Path 台账文件路径
func (s *JSONStore) Path() string {
	return s.path
}

// 持久化格式（字段名沿用既有文件）
type wireDocument struct {
	Evidencias []wireEntry `json:"evidencias"`
	ProximoID  int         `json:"proximo_id"`
}

type wirePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type wireEntry struct {
	ID               int           `json:"id"`
	Arquivo          string        `json:"arquivo"`
	Timestamp        string        `json:"timestamp"`
	Excluida         bool          `json:"excluida"`
	Comentario       string        `json:"comentario"`
	MetodoCaptura    string        `json:"metodo_captura"`
	TimestampTexto   string        `json:"timestamp_texto"`
	TimestampPosicao *wirePosition `json:"timestamp_posicao,omitempty"`
	TimestampCor     string        `json:"timestamp_cor,omitempty"`
	TimestampFundo   string        `json:"timestamp_fundo,omitempty"`
	TimestampTamanho int           `json:"timestamp_tamanho,omitempty"`
}

// 读取时接受的时间格式
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toWire(s *Snapshot) wireDocument {
	doc := wireDocument{Evidencias: make([]wireEntry, 0, len(s.Entries)), ProximoID: s.NextID}
	for _, e := range s.Entries {
		w := wireEntry{
			ID:            e.ID,
			Arquivo:       e.FileName,
			Excluida:      e.Deleted,
			Comentario:    e.Comment,
			MetodoCaptura: e.CaptureMethod,
		}
		// 无法解析（含空串）的时间原样写回
		if e.CapturedAt.IsZero() {
			w.Timestamp = e.rawTime
		} else {
			w.Timestamp = e.CapturedAt.Format(time.RFC3339)
		}
		if o := e.Overlay; o != nil {
			w.TimestampTexto = o.Text
			w.TimestampPosicao = &wirePosition{X: o.X, Y: o.Y}
			w.TimestampCor = o.Color
			w.TimestampFundo = o.Background
			w.TimestampTamanho = o.FontSize
		}
		doc.Evidencias = append(doc.Evidencias, w)
	}
	return doc
}

func fromWire(doc wireDocument) *Snapshot {
	s := &Snapshot{Entries: make([]Entry, 0, len(doc.Evidencias)), NextID: doc.ProximoID}
	for _, w := range doc.Evidencias {
		e := Entry{
			ID:            w.ID,
			FileName:      w.Arquivo,
			Comment:       w.Comentario,
			Deleted:       w.Excluida,
			CaptureMethod: w.MetodoCaptura,
		}
		if t, ok := parseTime(w.Timestamp); ok {
			e.CapturedAt = t
		} else {
			e.rawTime = w.Timestamp
		}
		if w.TimestampPosicao != nil {
			e.Overlay = &Overlay{
				Text:       w.TimestampTexto,
				X:          w.TimestampPosicao.X,
				Y:          w.TimestampPosicao.Y,
				Color:      w.TimestampCor,
				Background: w.TimestampFundo,
				FontSize:   w.TimestampTamanho,
			}
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

// Load 读取台账文件
func (s *JSONStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("解析台账失败: %w", err)
	}
	return fromWire(doc), nil
}

// Save 整体写回台账（先写临时文件再重命名）
func (s *JSONStore) Save(snap *Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(snap)); err != nil {
		return fmt.Errorf("序列化台账失败: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".evidencias-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入台账失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入台账失败: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("替换台账文件失败: %w", err)
	}
	return nil
}

// Remove 删除台账文件，文件不存在不视为错误
func (s *JSONStore) Remove() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
