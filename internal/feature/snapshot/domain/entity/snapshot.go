// Package entity はsnapshotフィーチャーのドメインエンティティを定義します。
package entity

import (
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// Kind はスナップショットファイルの種類です。
type Kind string

const (
	// KindStocklist は変換結果のシンボル一覧ファイルです。
	KindStocklist Kind = "stocklist"
	// KindDiff は2つのシンボル一覧の差分レポートです。
	KindDiff Kind = "diff"
)

// Snapshot は書き出されたファイル1件を表します。
type Snapshot struct {
	Kind      Kind
	Name      string // ベースファイル名
	Path      string
	Timestamp string // ファイル名に埋め込まれた YYYYMMDDHHMMSS
	Lines     int
	CreatedAt time.Time
}

// Naming はファイル名の接頭辞と接尾辞の組です。
type Naming struct {
	Prefix string
	Suffix string
}

// FileName は ts を埋め込んだファイル名を返します。
func (n Naming) FileName(ts string) string {
	return n.Prefix + ts + n.Suffix
}

// timestampPatterns は接頭辞ごとにコンパイル済みの正規表現を保持します。
var timestampPatterns sync.Map // map[string]*regexp.Regexp

func timestampPattern(prefix string) *regexp.Regexp {
	if re, ok := timestampPatterns.Load(prefix); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := timestampPatterns.LoadOrStore(prefix, regexp.MustCompile(regexp.QuoteMeta(prefix)+`(\d+)`))
	return re.(*regexp.Regexp)
}

// Timestamp はパスのベース名から接頭辞直後の数字列を取り出します。
func (n Naming) Timestamp(path string) (string, bool) {
	m := timestampPattern(n.Prefix).FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Newer は a が b より新しいスナップショットかを返します。
// 数字列は桁数、値の順で比較し、同じ場合はベース名で比較します。
func Newer(a, b Snapshot) bool {
	if len(a.Timestamp) != len(b.Timestamp) {
		return len(a.Timestamp) > len(b.Timestamp)
	}
	if a.Timestamp != b.Timestamp {
		return a.Timestamp > b.Timestamp
	}
	return a.Name > b.Name
}
