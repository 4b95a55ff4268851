package game

import "time"

type ticker struct{}

func NewTickerGen() ticker {
	return ticker{}
}

func (t *ticker) Create(duration time.Duration) <-chan time.Time {
	return time.NewTicker(duration).C
}
