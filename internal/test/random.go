package test

import (
	"math/rand/v2"
	"strings"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	letters      = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
)

// RandomASCIIString returns an alphanumeric string of length in [minLen, maxLen].
func RandomASCIIString(minLen, maxLen int) string {
	return randomFrom(alphanumeric, minLen, maxLen)
}

// RandomPersonName returns a two word capitalised name that passes rider name validation.
func RandomPersonName() string {
	first := randomFrom(letters, 3, 8)
	last := randomFrom(letters, 3, 10)
	return strings.ToUpper(first[:1]) + first[1:] + " " + strings.ToUpper(last[:1]) + last[1:]
}

// RandomContact returns a Kenyan style mobile number, e.g. +2547XXXXXXXX or 07XXXXXXXX.
func RandomContact() string {
	prefix := "0"
	if rand.IntN(2) == 0 {
		prefix = "+254"
	}
	return prefix + "7" + randomFrom(digits, 8, 8)
}

func randomFrom(alphabet string, minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.IntN(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}
