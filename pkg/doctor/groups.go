package doctor

import "runtime"

// GroupDefinition describes a check group before it is run.
type GroupDefinition struct {
	Name        string
	Description string
	Platform    string
	CheckIDs    []string
}

var groupDefinitions = map[string]GroupDefinition{
	GroupDeploy: {
		Name:        "Deploy",
		Description: "Required by `shipctl deploy` to push the bot to Railway",
		CheckIDs:    []string{IDRailway},
	},
	GroupBuild: {
		Name:        "Build",
		Description: "Required by `shipctl build` to package the admin panel",
		CheckIDs:    []string{IDPython, IDPip, IDPyInstaller},
	},
}

// GetGroups returns all check groups applicable to the current platform,
// in display order.
func GetGroups() []CheckGroup {
	return groupsFor(runtime.GOOS)
}

func groupsFor(platform string) []CheckGroup {
	var groups []CheckGroup
	for _, groupID := range GetAllGroupIDs() {
		def := groupDefinitions[groupID]
		if def.Platform != "" && def.Platform != platform {
			continue
		}
		groups = append(groups, CheckGroup{
			ID:          groupID,
			Name:        def.Name,
			Description: def.Description,
			Platform:    def.Platform,
		})
	}
	return groups
}

// GetGroupDefinition returns the definition for a specific group.
func GetGroupDefinition(groupID string) (GroupDefinition, bool) {
	def, ok := groupDefinitions[groupID]
	return def, ok
}

// GetAllGroupIDs returns all group IDs.
func GetAllGroupIDs() []string {
	return []string{GroupDeploy, GroupBuild}
}
