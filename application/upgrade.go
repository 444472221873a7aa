package application

// ConfigUpgrade upgrades a persisted node configuration document from
// FromVersion to the next version. Apply mutates the document in place and
// reports whether it changed anything.
type ConfigUpgrade struct {
	FromVersion int
	Apply       func(doc map[string]any) bool
}

var configUpgrades = []ConfigUpgrade{
	{
		FromVersion: 0,
		Apply: func(doc map[string]any) bool {
			if _, ok := doc["parseToPlainText"]; ok {
				return false
			}
			doc["parseToPlainText"] = false
			return true
		},
	},
}

// UpgradeConfig applies every upgrade step at or above fromVersion in order.
// Upgrades only ever add missing fields with their defaults; unknown fields
// and unknown versions pass through untouched.
func UpgradeConfig(fromVersion int, doc map[string]any) (bool, map[string]any) {
	if doc == nil {
		return false, doc
	}
	changed := false
	for _, upgrade := range configUpgrades {
		if upgrade.FromVersion < fromVersion {
			continue
		}
		if upgrade.Apply(doc) {
			changed = true
		}
	}
	return changed, doc
}
