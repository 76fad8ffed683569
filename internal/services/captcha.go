package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

// Captcha is the arithmetic anti-automation gate one storefront variant
// ships: two random single-digit numbers the user must add. A wrong answer
// re-rolls the challenge.
type Captcha struct {
	mu   sync.Mutex
	rng  *rand.Rand
	a, b int
}

func NewCaptcha(rng *rand.Rand) *Captcha {
	c := &Captcha{rng: rng}
	c.reroll()

	return c
}

func (c *Captcha) reroll() {
	c.a = c.rng.Intn(10)
	c.b = c.rng.Intn(10)
}

// Question renders the current challenge, e.g. "3 + 7".
func (c *Captcha) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fmt.Sprintf("%d + %d", c.a, c.b)
}

// Verify checks the answer against the current sum. A mismatch re-rolls the
// challenge so the next attempt faces fresh numbers.
func (c *Captcha) Verify(answer string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || parsed != c.a+c.b {
		c.reroll()

		return false
	}

	return true
}
