package geo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMatchesMGL compares m against a column first mathgl matrix.
func assertMatchesMGL(t *testing.T, want mgl32.Mat4, got Mat4) {
	t.Helper()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-4, "entry [%d][%d]", i, j)
		}
	}
}

func TestIdentityAndNull(t *testing.T) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			assert.Equal(t, want, Ident4()[i][j])
			assert.Equal(t, float32(0), Null4()[i][j])
		}
	}

	assert.Equal(t, Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, Ident3())
	assert.Equal(t, Mat2{{1, 0}, {0, 1}}, Ident2())
	assert.Equal(t, Mat2{}, Null2())
}

func TestApplyIdentity(t *testing.T) {
	for _, v := range sampleVectors {
		p := v.Vec4(1)
		assert.Equal(t, p, Ident4().Apply(p))
		assert.Equal(t, v, Ident3().Apply(v))
	}
	assert.Equal(t, Vec2{3, -4}, Ident2().Apply(Vec2{3, -4}))
}

func TestMatrixProduct(t *testing.T) {
	a := Mat2{{1, 2}, {3, 4}}
	b := Mat2{{5, 6}, {7, 8}}
	assert.Equal(t, Mat2{{19, 22}, {43, 50}}, a.Mul(b))

	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.Equal(t, m, m.Mul(Ident3()))
	assert.Equal(t, m, Ident3().Mul(m))
	assert.Equal(t, Mat3{{30, 36, 42}, {66, 81, 96}, {102, 126, 150}}, m.Mul(m))

	tr := Translation(Vec3{1, 2, 3})
	sc := Scaling(Vec3{2, 2, 2})
	p := Vec4{1, 1, 1, 1}
	// scale first, then translate
	assert.Equal(t, Vec4{3, 4, 5, 1}, tr.Mul(sc).Apply(p))
	assert.Equal(t, tr.Apply(sc.Apply(p)), tr.Mul(sc).Apply(p))
}

func TestDeterminant(t *testing.T) {
	assert.Equal(t, float32(1), Ident3().Det())
	assert.Equal(t, float32(0), Null3().Det())
	assert.Equal(t, float32(1), Ident2().Det())
	assert.Equal(t, float32(0), Null2().Det())
	assert.Equal(t, float32(1), Ident4().Det())
	assert.Equal(t, float32(0), Null4().Det())

	assert.Equal(t, float32(-2), Mat2{{1, 2}, {3, 4}}.Det())
	assert.Equal(t, float32(0), Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}.Det())
	assert.Equal(t, float32(-306), Mat3{{6, 1, 1}, {4, -2, 5}, {2, 8, 7}}.Det())
	assert.Equal(t, float32(8), Scaling(Vec3{2, 2, 2}).Det())
	assert.Equal(t, float32(1), Translation(Vec3{4, 5, 6}).Det())

	m := Mat4{
		{1, 0, 2, -1},
		{3, 0, 0, 5},
		{2, 1, 4, -3},
		{1, 0, 5, 0},
	}
	assert.Equal(t, float32(30), m.Det())
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{{6, 1, 1}, {4, -2, 5}, {2, 8, 7}}
	inv, err := m.Inverse()
	require.NoError(t, err)
	assert.True(t, m.Mul(inv).ApproxEqual(Ident3(), 1e-5), "m*inv:\n%v", m.Mul(inv))

	_, err = Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}.Inverse()
	assert.ErrorIs(t, err, ErrSingularMatrix)
}

func TestMat4Inverse(t *testing.T) {
	cases := map[string]Mat4{
		"translation": Translation(Vec3{3, -4, 5}),
		"scale":       Scaling(Vec3{2, 0.5, 4}),
		"rotation":    Rotation(0.7, Vec3{1, 1, 0}),
		"composed":    Translation(Vec3{1, 2, 3}).Mul(Rotation(1.1, Vec3{0, 1, 0})).Mul(UniformScaling(3)),
		"projection":  Perspective(Radians(90), 1280, 720, 0.1, 100),
	}

	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			inv, err := m.Inverse()
			require.NoError(t, err)

			for _, v := range sampleVectors {
				p := v.Vec4(1)
				back := inv.Apply(m.Apply(p))
				assert.True(t, back.ApproxEqual(p, 1e-3), "round trip of %v gave %v", p, back)
			}

			var ref mgl32.Mat4
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					ref.Set(i, j, m[i][j])
				}
			}
			assertMatchesMGL(t, ref.Inv(), inv)
		})
	}

	_, err := Null4().Inverse()
	assert.ErrorIs(t, err, ErrSingularMatrix)
}

func TestScaleEntriesVersusScaling(t *testing.T) {
	s := Ident4().ScaleEntries(2)
	assert.Equal(t, float32(2), s[3][3], "ScaleEntries touches the homogeneous row")

	tr := Scaling(Broadcast3(2))
	assert.Equal(t, float32(1), tr[3][3])
	assert.Equal(t, Vec4{2, 4, 6, 1}, tr.Apply(Vec4{1, 2, 3, 1}))
	assert.Equal(t, tr, Ident4().Scale(Broadcast3(2)))
}

func TestTranslateComposes(t *testing.T) {
	m := UniformScaling(2).Translate(Vec3{1, 2, 3})
	assert.Equal(t, Vec4{2, 4, 6, 1}, m.Apply(Vec4{0, 0, 0, 1}))
	assert.Equal(t, Translation(Vec3{1, 2, 3}), Ident4().Translate(Vec3{1, 2, 3}))
}

func TestTransposeAndFloat32(t *testing.T) {
	m := Translation(Vec3{7, 8, 9})
	assert.Equal(t, Vec4{7, 8, 9, 1}, m.Transpose().Row(3))
	assert.Equal(t, m, m.Transpose().Transpose())

	flat := m.Float32()
	assert.Equal(t, [4]float32{7, 8, 9, 1}, [4]float32{flat[12], flat[13], flat[14], flat[15]})
	assert.Equal(t, mgl32.Translate3D(7, 8, 9), mgl32.Mat4(flat))
}
