package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flowmind/agentgraph/agent"
)

// yamlDefinition is the on-disk shape of a workflow file: a name and an
// ordered list of steps, each naming the registered agent class that runs
// it and the step names it depends on.
type yamlDefinition struct {
	Name  string      `yaml:"name"`
	Steps []yamlStep  `yaml:"steps"`
}

type yamlStep struct {
	Name      string   `yaml:"name"`
	Agent     string   `yaml:"agent"`
	DependsOn []string `yaml:"depends_on"`
	Retries   *int     `yaml:"retries"`
}

// Registry resolves an agent class by the name used in a YAML workflow
// file. Agent classes are Go values with behavior attached (Call is a
// method, not data), so YAML can only ever reference them by name — it
// cannot construct one from scratch.
type Registry map[string]agent.Class

// LoadYAML parses workflow bytes and builds a Definition from them,
// resolving each step's agent name against reg. This is an additive
// convenience on top of Define/Builder, not the primary way to declare a
// workflow — most callers will prefer Define directly so step dependencies
// are Go identifiers the compiler checks.
func LoadYAML(data []byte, reg Registry) (*Definition, error) {
	var doc yamlDefinition
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow yaml: %w", err)
	}

	return Define(doc.Name, func(b *Builder) {
		for _, step := range doc.Steps {
			agentClass, ok := reg[step.Agent]
			if !ok {
				b.def.buildErr = fmt.Errorf("workflow %q step %q: %w", doc.Name, step.Name, &agent.NotImplementedError{ClassName: step.Agent})
				return
			}
			opts := []StepOption{}
			if len(step.DependsOn) > 0 {
				opts = append(opts, After(step.DependsOn...))
			}
			if step.Retries != nil {
				opts = append(opts, Retries(*step.Retries))
			}
			b.Step(step.Name, agentClass, opts...)
		}
	})
}

// LoadYAMLFile reads a workflow definition from path and builds it via
// LoadYAML.
func LoadYAMLFile(path string, reg Registry) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file %s: %w", path, err)
	}
	return LoadYAML(data, reg)
}
