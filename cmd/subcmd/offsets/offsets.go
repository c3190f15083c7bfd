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

package offsets

import (
	"flag"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/loggie-io/dataformat/pkg/control"
	"github.com/loggie-io/dataformat/pkg/core/log"
	"github.com/loggie-io/dataformat/pkg/offsetstore"
)

const SubCommandOffsets = "offsets"

// RunOffsets prints the committed offsets, or forgets the offset of one file
// with -reset so the next run parses it again from the start.
func RunOffsets(args []string, out io.Writer) error {
	var (
		configFile string
		reset      string
	)
	offsetsCmd := flag.NewFlagSet(SubCommandOffsets, flag.ContinueOnError)
	offsetsCmd.StringVar(&configFile, "config", "dataparse.yml", "config file")
	offsetsCmd.StringVar(&reset, "reset", "", "absolute path of the file whose offset is removed")
	if err := offsetsCmd.Parse(args); err != nil {
		return err
	}

	config, err := control.LoadConfig(configFile)
	if err != nil {
		return err
	}
	store, err := offsetstore.Open(config.Store, config.DataFormat.Format.GetType())
	if err != nil {
		return err
	}
	defer store.Close()

	if reset != "" {
		if err := store.Delete(reset); err != nil {
			return err
		}
		log.Info("offset of %s removed", reset)
		return nil
	}

	registries, err := store.All()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(registries)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
