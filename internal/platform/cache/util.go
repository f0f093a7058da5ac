package cache

import (
	"time"
)

// DefaultRefreshHour は外部APIのキャッシュを切り替える時刻（ローカル時間）です。
const DefaultRefreshHour = 8

// TimeUntilNextRefresh は now から次の hour 時（now のロケーション）までの期間を返します。
func TimeUntilNextRefresh(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())

	// 今日のその時刻を既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
