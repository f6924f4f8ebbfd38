// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"golang.org/x/time/rate"
)

// RateLimiter bounds MCP tool calls and live requests per minute.
type RateLimiter struct {
	runs  *rate.Limiter
	calls *rate.Limiter
}

// NewRateLimiter creates a limiter allowing runsPerMinute live requests and
// callsPerMinute tool calls, each with a full initial burst.
func NewRateLimiter(runsPerMinute, callsPerMinute int) *RateLimiter {
	return &RateLimiter{
		runs:  rate.NewLimiter(rate.Limit(float64(runsPerMinute)/60.0), runsPerMinute),
		calls: rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), callsPerMinute),
	}
}

// AllowRun reports whether a live request may proceed.
func (rl *RateLimiter) AllowRun() bool {
	return rl.runs.Allow()
}

// AllowCall reports whether any tool call may proceed.
func (rl *RateLimiter) AllowCall() bool {
	return rl.calls.Allow()
}
