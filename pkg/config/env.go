// Copyright 2025 walteh LLC
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

package config

import (
	"os"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

// 🌱 LoadEnvFiles loads each .env file that exists. Variables already set in
// the process environment win.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Errorf("checking env file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return errors.Errorf("loading env file %s: %w", path, err)
		}
	}
	return nil
}

// ExpandEnv expands ${VAR} and $VAR references in path-like config values.
// Replacement text is never expanded.
func ExpandEnv(s string) string {
	if s == "" {
		return s
	}
	return os.ExpandEnv(s)
}
