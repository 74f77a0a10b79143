// Copyright 2025 The Opsflow Authors, Inc.
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

package utils

const (
	// PageNo default page number
	PageNo = 1
	// PageSize default page size
	PageSize = 10
	// PageSizeMax upper bound a client may request per page
	PageSizeMax = 100
)

// NormalizePage clamps page/size to sane bounds and returns the offset.
func NormalizePage(page, size int) (int, int, int) {
	if page < PageNo {
		page = PageNo
	}
	if size <= 0 {
		size = PageSize
	}
	if size > PageSizeMax {
		size = PageSizeMax
	}
	return page, size, (page - 1) * size
}
