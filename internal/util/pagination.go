package util

import (
	"math"
	"strconv"
)

const PageSize = 10

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ClampPage keeps page within 1..n where (n+1)*size still fits in an int.
func ClampPage(page, size int) int {
	if size < 1 {
		size = PageSize
	}
	if page < 1 {
		return 1
	}
	if max := math.MaxInt/size - 1; page > max {
		return max
	}
	return page
}

func Calculate(page, size int) (offset, limit int) {
	if size < 1 {
		size = PageSize
	}
	page = ClampPage(page, size)
	return (page - 1) * size, size
}

func LastPage(total int64, size int) int {
	if size < 1 {
		size = PageSize
	}
	last := int((total + int64(size) - 1) / int64(size))
	if last < 1 {
		return 1
	}
	return last
}
