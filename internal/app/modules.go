package app

import (
	"github.com/specialistvlad/slotgraph/internal/handlers"
	"github.com/specialistvlad/slotgraph/modules/env_vars"
	"github.com/specialistvlad/slotgraph/modules/generate"
	"github.com/specialistvlad/slotgraph/modules/http_request"
	"github.com/specialistvlad/slotgraph/modules/print"
	"github.com/specialistvlad/slotgraph/modules/report"
	"github.com/specialistvlad/slotgraph/modules/value"
)

// coreModules is the definitive list of all transforms that are compiled
// into the slotgraph binary.
func coreModules() []handlers.Module {
	return []handlers.Module{
		&generate.Module{},
		&value.Module{},
		&report.Module{},
		&print.Module{},
		&env_vars.Module{},
		&http_request.Module{},
	}
}
