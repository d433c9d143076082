package modelstore_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/agentbid/auction/modelstore"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeObjects struct {
	lock    *sync.Mutex
	objects map[string][]byte
	getErr  error
	gets    []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{lock: &sync.Mutex{}, objects: map[string][]byte{}}
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.gets = append(f.gets, key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	blob, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(blob))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	blob, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = blob
	return &s3.PutObjectOutput{}, nil
}

var _ = Describe("S3Store", func() {
	var (
		objects *fakeObjects
		store   *modelstore.S3Store
		ctx     context.Context
	)

	BeforeEach(func() {
		objects = newFakeObjects()
		store = modelstore.NewS3Store(logger, objects, "models", "policies")
		ctx = context.Background()
	})

	It("reports NoSuchKey as absent", func() {
		blob, found, err := store.Load(ctx, "alpha_u1_pretrained")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(found).Should(BeFalse())
		Ω(blob).Should(BeNil())
		Ω(objects.gets).Should(Equal([]string{"models/policies/alpha_u1_pretrained.model"}))
	})

	It("round trips a saved blob", func() {
		Ω(store.Save(ctx, "alpha_u1_pretrained", []byte("weights"))).Should(Succeed())

		blob, found, err := store.Load(ctx, "alpha_u1_pretrained")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(found).Should(BeTrue())
		Ω(blob).Should(Equal([]byte("weights")))
	})

	It("passes other errors through", func() {
		objects.getErr = errors.New("throttled")

		_, found, err := store.Load(ctx, "k")
		Ω(err).Should(MatchError("throttled"))
		Ω(found).Should(BeFalse())
	})
})
