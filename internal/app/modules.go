package app

import (
	"github.com/vk/odegraph/internal/registry"
	"github.com/vk/odegraph/modules/constant"
	"github.com/vk/odegraph/modules/operator"
	"github.com/vk/odegraph/modules/population"
	"github.com/vk/odegraph/modules/probe"
)

// coreModules is the definitive list of all node kinds that are compiled
// into the odegraph binary.
var coreModules = []registry.Module{
	&constant.Module{},
	&operator.Module{},
	&population.Module{},
	&probe.Module{},
}
