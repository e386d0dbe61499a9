package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Repository(t *testing.T) {
	assert := assert.New(t)

	repo := NewRepository()

	name, err := repo.Add("heal: target:@ amount:int=10 ~health", "heal-exec")
	require.NoError(t, err)
	assert.Equal("heal", name)

	_, err = repo.Add("say msg:str", nil)
	require.NoError(t, err)

	_, err = repo.Add("broken: x:nope", nil)
	assert.Error(err)

	assert.Equal(2, repo.Len())
	assert.Equal([]string{"heal", "say"}, repo.Names())

	cmd, ok := repo.Get("heal")
	assert.True(ok)
	assert.Equal("heal-exec", cmd.Executor)

	_, ok = repo.Get("broken")
	assert.False(ok)

	assert.True(repo.Remove("say"))
	assert.False(repo.Remove("say"))
	assert.Equal([]string{"heal"}, repo.Names())
}

func Test_Repository_separateInstances(t *testing.T) {
	assert := assert.New(t)

	first := NewRepository()
	second := NewRepository()

	_, err := first.Add("only-here", nil)
	require.NoError(t, err)

	_, ok := second.Get("only-here")
	assert.False(ok)
	assert.Equal(0, second.Len())
}

func Test_Repository_concurrentLookups(t *testing.T) {
	repo := NewRepository()
	for _, s := range []string{"a x:int", "b y:str", "c z:num=0"} {
		_, err := repo.Add(s, nil)
		require.NoError(t, err)
	}
	ip := NewInterpreter(repo, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, line := range []string{"a 1", "b two", "c"} {
				if _, err := ip.Parse(line); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
