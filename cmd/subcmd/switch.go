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

package subcmd

import (
	"os"

	"github.com/pkg/errors"

	"github.com/loggie-io/dataformat/cmd/subcmd/offsets"
)

// ErrExit tells main that a sub command already ran.
var ErrExit = errors.New("exit")

func SwitchSubCommand() error {
	if len(os.Args) == 1 {
		return nil
	}
	switch os.Args[1] {
	case offsets.SubCommandOffsets:
		if err := offsets.RunOffsets(os.Args[2:], os.Stdout); err != nil {
			return err
		}
		return ErrExit
	}
	return nil
}
