/*
Copyright 2023 Loggie Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompilePatternWithJavaStyle(t *testing.T) {
	r, err := CompilePatternWithJavaStyle(`^(?<a>\d+)-(?P<b>\w+)$`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"", "a", "b"}, r.SubexpNames())

	_, err = CompilePatternWithJavaStyle(`(?<a>`)
	assert.Error(t, err)
}

func TestMatchGroupWithRegex(t *testing.T) {
	type args struct {
		compRegEx *regexp.Regexp
		context   string
	}
	tests := []struct {
		name          string
		args          args
		wantParamsMap map[string]string
	}{
		{
			name: "test date",
			args: args{
				compRegEx: MustCompilePatternWithJavaStyle("^(?P<Year>\\d{4})-(?P<Month>\\d{2})-(?P<Day>\\d{2})$"),
				context:   "2021-11-01",
			},
			wantParamsMap: map[string]string{
				"Year":  "2021",
				"Month": "11",
				"Day":   "01",
			},
		},
		{
			name: "test log split",
			args: args{
				compRegEx: MustCompilePatternWithJavaStyle("^\\[(?<loglevel>[^,]*)\\]\\s*Lag\\s*monitor,\\s*time\\:(?<time>[^,]*),\\s*groupid\\:\\s*(?<groupid>[^,]*),\\s*current_lag_sum\\:(?<currentlag>[^,]*),\\s*threshold\\:(?<threshold>[^,]*),\\s*topics\\:(?<topic>[^,]*)"),
				context:   "[WARN]  Lag monitor, time:2019-10-31 15:31:05, groupid: fdata-dmvipappnewsaleratejob, current_lag_sum: 17, threshold: 60000, topics: FDATA-DWD_ORDER_USER",
			},
			wantParamsMap: map[string]string{
				"currentlag": " 17",
				"groupid":    "fdata-dmvipappnewsaleratejob",
				"loglevel":   "WARN",
				"threshold":  " 60000",
				"time":       "2019-10-31 15:31:05",
				"topic":      " FDATA-DWD_ORDER_USER",
			},
		},
		{
			name: "no match",
			args: args{
				compRegEx: MustCompilePatternWithJavaStyle("^(?<level>[A-Z]+) (?<msg>.*)$"),
				context:   "lowercase line",
			},
			wantParamsMap: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantParamsMap, MatchGroupWithRegex(tt.args.compRegEx, tt.args.context))
		})
	}
}
