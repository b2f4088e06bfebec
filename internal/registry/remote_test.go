package registry

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

// memS3 is an in-memory S3API.
type memS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	order   []string
	failGet string
}

func newMemS3() *memS3 {
	return &memS3{objects: make(map[string][]byte)}
}

func (m *memS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Key)] = data
	m.order = append(m.order, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (m *memS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := aws.ToString(in.Key)
	if key == m.failGet {
		return nil, stderrors.New("injected failure")
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func seedTemplate(t *testing.T, reg *Registry, name string) {
	t.Helper()
	tmpl := createTemplate(t, reg, name)
	files := map[string]string{
		"src/App.tsx":                "export default function App() {}\n",
		"src/pages/Home.tsx":         "export default function Home() {}\n",
		"src/node_modules/x/index.js": "skip\n",
	}
	for rel, content := range files {
		p := filepath.Join(tmpl.Dir(), filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRemote_PushPullList(t *testing.T) {
	ctx := context.Background()
	store := newMemS3()

	src := New(t.TempDir())
	seedTemplate(t, src, "shop")
	remote := NewRemote(src, store, "bucket", "/templates/")

	n, err := remote.Push(ctx, "shop")
	if err != nil {
		t.Fatalf("Push error: %v", err)
	}
	if n != 3 {
		t.Errorf("Push sent %d files, want 3", n)
	}
	if last := store.order[len(store.order)-1]; last != "templates/shop/"+templates.ConfigFileName {
		t.Errorf("last uploaded key = %q, want the config file", last)
	}
	if _, ok := store.objects["templates/shop/src/node_modules/x/index.js"]; ok {
		t.Error("excluded file was pushed")
	}

	names, err := remote.RemoteList(ctx)
	if err != nil {
		t.Fatalf("RemoteList error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"shop"}) {
		t.Errorf("RemoteList = %v", names)
	}

	dst := New(filepath.Join(t.TempDir(), "registry"))
	pulled, err := NewRemote(dst, store, "bucket", "templates").Pull(ctx, "shop")
	if err != nil {
		t.Fatalf("Pull error: %v", err)
	}
	if pulled.Dir() != dst.Path("shop") {
		t.Errorf("pulled into %q", pulled.Dir())
	}
	data, err := os.ReadFile(filepath.Join(dst.Path("shop"), "src", "pages", "Home.tsx"))
	if err != nil || !strings.Contains(string(data), "Home") {
		t.Errorf("pulled file = %q, %v", data, err)
	}

	orig, _ := src.Get("shop")
	if !reflect.DeepEqual(pulled.Config(), orig.Config()) {
		t.Error("pulled config differs from pushed config")
	}

	if _, err := NewRemote(dst, store, "bucket", "templates").Pull(ctx, "shop"); !errors.IsValidation(err) {
		t.Errorf("second Pull error = %v, want collision", err)
	}
}

func TestRemote_PullMissing(t *testing.T) {
	reg := New(t.TempDir())
	_, err := NewRemote(reg, newMemS3(), "bucket", "templates").Pull(context.Background(), "ghost")
	if !errors.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestRemote_PullFailureLeavesNothing(t *testing.T) {
	ctx := context.Background()
	store := newMemS3()

	src := New(t.TempDir())
	seedTemplate(t, src, "shop")
	if _, err := NewRemote(src, store, "bucket", "templates").Push(ctx, "shop"); err != nil {
		t.Fatal(err)
	}
	store.failGet = "templates/shop/src/pages/Home.tsx"

	dst := New(t.TempDir())
	_, err := NewRemote(dst, store, "bucket", "templates").Pull(ctx, "shop")
	if errors.CodeOf(err) != "E406" {
		t.Fatalf("error = %v, want E406", err)
	}

	entries, err := os.ReadDir(dst.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("registry not empty after failed pull: %v", entries)
	}
}

func TestRemote_ListIgnoresIncomplete(t *testing.T) {
	store := newMemS3()
	store.objects["templates/partial/src/App.tsx"] = []byte("x")
	store.objects["templates/done/"+templates.ConfigFileName] = []byte("{}")
	store.objects["templates/done/src/deep/"+templates.ConfigFileName] = []byte("{}")
	store.objects["other/x/"+templates.ConfigFileName] = []byte("{}")

	names, err := NewRemote(New(t.TempDir()), store, "bucket", "templates").RemoteList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"done"}) {
		t.Errorf("RemoteList = %v, want [done]", names)
	}
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(S3Options{Region: "eu-west-1", Endpoint: "http://localhost:9000", AccessKeyID: "a", SecretAccessKey: "b"})
	opts := client.Options()
	if opts.Region != "eu-west-1" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q path-style %v endpoint %q", opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "a" {
		t.Errorf("credentials = %+v, %v", creds, err)
	}
}
