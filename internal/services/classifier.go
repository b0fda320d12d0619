package services

import (
	"time"

	"riconnect/internal/domain"
)

// Classify splits events into live, upcoming and past relative to now. An event is live
// when start <= now <= end, upcoming when now < start and past otherwise. Events
// whose timestamps do not parse are left out; callers can compare Buckets.Len with the
// input length to detect them. Input order is kept within each bucket.
func Classify(now time.Time, events []domain.EnrichedEvent) domain.Buckets {
	b := domain.Buckets{
		Live:     []domain.EnrichedEvent{},
		Upcoming: []domain.EnrichedEvent{},
		Past:     []domain.EnrichedEvent{},
	}
	for _, ev := range events {
		start, err := domain.ParseTimestamp(ev.StartingAt)
		if err != nil {
			continue
		}
		end, err := domain.ParseTimestamp(ev.EndingAt)
		if err != nil {
			continue
		}
		switch {
		case !now.Before(start) && !now.After(end):
			b.Live = append(b.Live, ev)
		case start.After(now):
			b.Upcoming = append(b.Upcoming, ev)
		default:
			b.Past = append(b.Past, ev)
		}
	}
	return b
}
