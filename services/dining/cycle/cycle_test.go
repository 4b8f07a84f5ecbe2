package cycle

import (
	"testing"
	"time"

	"beachdining-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 8, 26, 0, 0, 0, 0, timezone.Location) // a Monday

func TestResolveAtEpoch(t *testing.T) {
	id, day := Resolve(epoch, epoch, 5)
	require.Equal(t, "0", id)
	require.Equal(t, "Monday", day)
}

func TestResolveOneWeekLater(t *testing.T) {
	id, day := Resolve(epoch.AddDate(0, 0, 7), epoch, 5)
	require.Equal(t, "1", id)
	require.Equal(t, "Monday", day)
}

func TestResolveMidWeek(t *testing.T) {
	id, day := Resolve(epoch.AddDate(0, 0, 9), epoch, 5)
	require.Equal(t, "1", id)
	require.Equal(t, "Wednesday", day)
}

func TestResolveBeforeEpoch(t *testing.T) {
	// the day before the epoch belongs to the last cycle's last weekday
	id, day := Resolve(epoch.AddDate(0, 0, -1), epoch, 5)
	require.Equal(t, "4", id)
	require.Equal(t, "Sunday", day)
}

func TestResolvePeriodicity(t *testing.T) {
	for k := -3; k <= 3; k++ {
		for offset := 0; offset < 35; offset++ {
			date := epoch.AddDate(0, 0, offset)
			shifted := date.AddDate(0, 0, k*5*7)

			id1, day1 := Resolve(date, epoch, 5)
			id2, day2 := Resolve(shifted, epoch, 5)
			require.Equal(t, id1, id2, "offset=%d k=%d", offset, k)
			require.Equal(t, day1, day2, "offset=%d k=%d", offset, k)
		}
	}
}

func TestResolveIdentifierRange(t *testing.T) {
	for offset := -100; offset <= 100; offset++ {
		id, _ := Resolve(epoch.AddDate(0, 0, offset), epoch, 5)
		require.Contains(t, []string{"0", "1", "2", "3", "4"}, id)
	}
}

func TestResolveAcrossDSTBoundary(t *testing.T) {
	// 2024-11-03 is the fall-back day in America/Los_Angeles; civil day
	// counting must not drift from the extra hour
	before := time.Date(2024, 11, 2, 0, 0, 0, 0, timezone.Location)
	after := time.Date(2024, 11, 4, 0, 0, 0, 0, timezone.Location)

	idBefore, _ := Resolve(before, epoch, 5)
	idAfter, _ := Resolve(after, epoch, 5)
	require.Equal(t, "4", idBefore) // 68 days after epoch -> week 9 -> 9 mod 5
	require.Equal(t, "0", idAfter)  // 70 days -> week 10 -> 10 mod 5
}
