//go:build integration

package resource_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/stash/internal/testutils"
	"github.com/ligustah/stash/pkg/resource"
)

type bytesUpload []byte

func (u bytesUpload) Extension() string { return "bin" }

func (u bytesUpload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(u)), nil
}

func TestIntegrationLifecycleOnMinio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	env := testutils.StartMinioContainer(t, ctx, "stash-test")
	defer env.Close(ctx)

	bucket, err := env.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	backend := resource.NewBucketBackend(bucket)
	layout := resource.DefaultLayout()
	data := testutils.GenerateTestData(t, 5*1024*1024)

	// Create.
	rec := &record{}
	m := resource.New(rec, "file", backend, layout)
	m.Attach(bytesUpload(data))
	if res, err := m.Promote(ctx); err != nil || res != resource.Succeeded {
		t.Fatalf("Promote = %v, %v", res, err)
	}
	first := rec.value
	firstKey := m.Path()

	r, err := bucket.NewReader(ctx, firstKey, nil)
	if err != nil {
		t.Fatalf("open stored file: %v", err)
	}
	got, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("stored content differs from upload")
	}

	// Replace.
	rec = &record{value: first, previous: first}
	m = resource.New(rec, "file", backend, layout)
	m.Attach(bytesUpload([]byte("replacement")))
	if res, err := m.Promote(ctx); err != nil || res != resource.Succeeded {
		t.Fatalf("Promote = %v, %v", res, err)
	}
	if res, err := m.Reconcile(ctx); err != nil || res != resource.Succeeded {
		t.Fatalf("Reconcile = %v, %v", res, err)
	}
	if ok, _ := bucket.Exists(ctx, firstKey); ok {
		t.Errorf("%s still in store after replace", firstKey)
	}
	if ok, _ := bucket.Exists(ctx, layout.StagingKey(first)); !ok {
		t.Errorf("%s not moved to staging", first)
	}

	// Delete.
	if res, err := m.Delete(ctx); err != nil || res != resource.Succeeded {
		t.Fatalf("Delete = %v, %v", res, err)
	}

	result, err := resource.Verify(ctx, backend, layout, nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Valid || result.Files != 0 {
		t.Errorf("Verify = %+v, want an empty valid store", result)
	}
}
