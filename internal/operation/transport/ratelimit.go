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

package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// tokenBucket adapts rate.Limiter to RateLimiter.
type tokenBucket struct {
	limiter *rate.Limiter
}

// NewRateLimiter returns a token-bucket limiter allowing requestsPerSecond
// with the given burst. A non-positive rate yields nil, meaning unlimited.
func NewRateLimiter(requestsPerSecond float64, burst int) RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a request is allowed under the rate limit.
func (b *tokenBucket) Wait(ctx context.Context) error {
	return b.limiter.Wait(ctx)
}
