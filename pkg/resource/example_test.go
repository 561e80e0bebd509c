package resource_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ligustah/stash/pkg/resource"
)

type record struct {
	value, previous string
}

func (r *record) Value() string { return r.value }
func (r *record) SetValue(v string) { r.value = v }
func (r *record) PreviousValue() string { return r.previous }
func (r *record) ReportError(attr, msg string) { log.Printf("%s: %s", attr, msg) }

type textUpload string

func (u textUpload) Extension() string { return "txt" }

func (u textUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(u))), nil
}

func Example() {
	ctx := context.Background()

	root, err := os.MkdirTemp("", "stash-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	backend := resource.NewOSBackend(root, 0)
	names := []string{"0f0f0f0f", "a1b2c3d4"}
	rec := &record{}
	m := resource.New(rec, "attachment", backend, resource.DefaultLayout(),
		resource.WithNameGenerator(func() string {
			n := names[0]
			names = names[1:]
			return n
		}),
	)

	// Stage the upload and copy it into the store.
	m.Attach(textUpload("hello"))
	if _, err := m.Promote(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.value)
	fmt.Println(m.Path())

	// Once saved, move the staged copy out of the way.
	rec.previous = rec.value
	res, err := m.Reconcile(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res)

	// Output:
	// a1b2c3d4.txt
	// uploads/store/a1/b2/c3/a1b2c3d4.txt
	// skipped
}

func ExampleShardPath() {
	fmt.Println(resource.ShardPath("a1b2c3d4e5f6.jpg"))
	// Output: a1/b2/c3
}
