package internal

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rs/zerolog/log"
)

func ShowVersion() {
	log.Info().Str("version", versioninfo.Short()).Msg("imgpipe")
}

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

// EnvironmentVars logs the IMGPIPE_ settings in effect, masking secrets
func EnvironmentVars() {
	environ := os.Environ()
	sort.Slice(environ, func(i, j int) bool {
		keyI := strings.SplitN(environ[i], "=", 2)[0]
		keyJ := strings.SplitN(environ[j], "=", 2)[0]
		return keyI < keyJ
	})

	for _, entry := range environ {
		kv := strings.SplitN(entry, "=", 2)
		if !strings.HasPrefix(kv[0], "IMGPIPE_") {
			continue
		}
		if sensitiveRegex.MatchString(kv[0]) {
			log.Debug().Str(kv[0], "********").Msg("environment")
		} else {
			log.Debug().Str(kv[0], kv[1]).Msg("environment")
		}
	}
}

func UserInfo() {
	event := log.Debug().Int("pid", os.Getpid())
	currentUser, err := user.Current()
	if err != nil {
		log.Warn().Err(err).Msg("error getting current user")
	} else {
		event = event.Str("user", fmt.Sprintf("uid=%s(%s) gid=%s", currentUser.Uid, currentUser.Username, currentUser.Gid))
	}
	groups, err := os.Getgroups()
	if err != nil {
		log.Warn().Err(err).Msg("error getting groups")
	} else {
		groupNames := make([]string, 0, len(groups))
		for _, gid := range groups {
			group, err := user.LookupGroupId(strconv.Itoa(gid))
			if err != nil {
				groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
			} else {
				groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
			}
		}
		event = event.Strs("groups", groupNames)
	}
	event.Msg("process identity")
}
