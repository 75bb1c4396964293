// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conn

import "fmt"

// LookupError reports a security-level error in a historical data response.
// The call aborts; the ticker is never silently omitted from the result.
type LookupError struct {
	Ticker   string
	Category string
	Detail   string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("security error for '%s' [%s]: %s",
		e.Ticker, e.Category, e.Detail)
}

// TimeoutError reports that a time-sliced fetch hit its terminal timeout
// with fewer records accumulated than the expected
// tickers x fields x business-days cardinality.
type TimeoutError struct {
	Expected    int
	Accumulated int
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"timed out with %d of %d expected records; increase the timeout",
		e.Accumulated, e.Expected)
}
