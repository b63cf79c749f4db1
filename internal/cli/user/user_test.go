package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/taskboard/internal/cli"
	clitest "github.com/thenoetrevino/taskboard/internal/testutil/cli"
)

func TestUserCommands(t *testing.T) {
	t.Parallel()
	_, app := clitest.SetupCLITest(t)

	res, err := clitest.ExecuteCLICommand(t, app, CreateCmd(), "--username", "alice", "--display-name", "Alice Smith", "--json")
	require.NoError(t, err)
	u := clitest.ParseJSON(t, res.Stdout)["user"].(map[string]any)
	assert.Equal(t, "alice", u["username"])

	_, err = clitest.ExecuteCLICommand(t, app, CreateCmd(), "--username", "alice")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))

	res, err = clitest.ExecuteCLICommand(t, app, ListCmd())
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "Alice Smith (alice)")
}
