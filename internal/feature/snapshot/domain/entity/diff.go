package entity

import (
	"bytes"
	"slices"
	"strings"
)

const (
	// NewHeader は新規行セクションの見出しです。
	NewHeader = "###NEW"
	// GoneHeader は消滅行セクションの見出しです。
	GoneHeader = "###GONE"
)

// DiffReport は新旧2つのスナップショットの集合差分です。
type DiffReport struct {
	Newer Snapshot
	Older Snapshot
	New   []string // newer にのみ存在する行
	Gone  []string // older にのみ存在する行
	Path  string   // 書き出したレポートのパス
}

// LineSet は内容を行の集合に変換します。末尾の \r は除去し、空行は無視します。
func LineSet(content []byte) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

// Diff は newer と older の差分を計算します。各セクションはソート済みです。
func Diff(newer, older map[string]struct{}) (added, gone []string) {
	added = difference(newer, older)
	gone = difference(older, newer)
	return added, gone
}

func difference(a, b map[string]struct{}) []string {
	out := make([]string, 0)
	for line := range a {
		if _, ok := b[line]; !ok {
			out = append(out, line)
		}
	}
	slices.Sort(out)
	return out
}

// Render はレポート本文を生成します。
func (r *DiffReport) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString(NewHeader + "\n")
	for _, line := range r.New {
		buf.WriteString(line + "\n")
	}
	buf.WriteString(GoneHeader + "\n")
	for _, line := range r.Gone {
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

// Lines はレポートの行数を返します（見出しを含む）。
func (r *DiffReport) Lines() int {
	return len(r.New) + len(r.Gone) + 2
}
