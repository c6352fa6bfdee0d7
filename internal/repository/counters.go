package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter names a denormalized counter column.
type Counter string

const (
	CounterLikes     Counter = "likes"
	CounterComments  Counter = "comments"
	CounterFollowers Counter = "followers"
	CounterFollowing Counter = "following"
	CounterPosts     Counter = "posts"
)

var (
	userCounters = map[Counter]bool{CounterFollowers: true, CounterFollowing: true, CounterPosts: true}
	postCounters = map[Counter]bool{CounterLikes: true, CounterComments: true}
)

// counterExpr adjusts a counter in SQL. Decrements are floored at zero so a
// previously corrupted count never goes negative.
func counterExpr(counter Counter, delta int) clause.Expr {
	col := string(counter)
	if delta >= 0 {
		return gorm.Expr(col+" + ?", delta)
	}
	return gorm.Expr("CASE WHEN "+col+" > ? THEN "+col+" - ? ELSE 0 END", -delta, -delta)
}

func checkCounter(allowed map[Counter]bool, counter Counter, table string) error {
	if !allowed[counter] {
		return fmt.Errorf("unknown %s counter %q", table, counter)
	}
	return nil
}
