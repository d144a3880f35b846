package IO

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/manningwu07/GAIN/gan"
	"github.com/manningwu07/GAIN/params"
)

// LossLog streams one CSV row per round: mode,epoch,d_loss,g_loss.
type LossLog struct {
	f *os.File
	w *csv.Writer
}

// CreateLossLog creates or truncates path and writes the header.
func CreateLossLog(path string) (*LossLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating loss log: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"mode", "epoch", "d_loss", "g_loss"}); err != nil {
		f.Close()
		return nil, err
	}
	return &LossLog{f: f, w: w}, nil
}

// Append writes and flushes one round.
func (l *LossLog) Append(mode params.Mode, r gan.Round) error {
	err := l.w.Write([]string{
		string(mode),
		strconv.Itoa(r.Epoch),
		strconv.FormatFloat(r.DLoss, 'g', -1, 64),
		strconv.FormatFloat(r.GLoss, 'g', -1, 64),
	})
	if err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *LossLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// ReadLossLog parses a file written by LossLog back into per-mode histories,
// in the order modes first appear.
func ReadLossLog(path string) ([]*gan.History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading loss log: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("loss log %s has no header", path)
	}

	var out []*gan.History
	byMode := map[params.Mode]*gan.History{}
	for i, rec := range records[1:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("loss log line %d: %d fields, want 4", i+2, len(rec))
		}
		mode := params.Mode(rec[0])
		d, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("loss log line %d: %w", i+2, err)
		}
		g, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("loss log line %d: %w", i+2, err)
		}
		h, ok := byMode[mode]
		if !ok {
			h = &gan.History{Mode: mode}
			byMode[mode] = h
			out = append(out, h)
		}
		h.DLoss = append(h.DLoss, d)
		h.GLoss = append(h.GLoss, g)
	}
	return out, nil
}
