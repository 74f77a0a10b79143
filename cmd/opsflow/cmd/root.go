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

package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "opsflow [command]",
		SilenceUsage: true,
		Short:        "opsflow is the internal operations dashboard",
		Long:         `opsflow serves the operations dashboard API: role-gated function registry, request approval workflow and dashboard statistics.`,
	}

	cmd.AddCommand(newServerCommand())

	return cmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
