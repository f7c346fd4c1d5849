// Package kernel carries the PTX source for the CUDA matmul kernel.
package kernel

// PTXmatmulCUDA is a naive row-per-thread double precision matrix product:
// dst[row*n+col] = sum over i of a[row*k+i] * b[i*n+col].
const PTXmatmulCUDA = `
.version 7.0
.target sm_50
.address_size 64

.visible .entry matmul(
	.param .u64 _dst,
	.param .u64 _a,
	.param .u64 _b,
	.param .u32 _m,
	.param .u32 _k,
	.param .u32 _n
)
{
	.reg .pred  %p<4>;
	.reg .b32   %r<16>;
	.reg .b64   %rd<16>;
	.reg .f64   %fd<6>;

	ld.param.u64    %rd1, [_dst];
	ld.param.u64    %rd2, [_a];
	ld.param.u64    %rd3, [_b];
	ld.param.u32    %r1, [_m];
	ld.param.u32    %r2, [_k];
	ld.param.u32    %r3, [_n];
	cvta.to.global.u64  %rd1, %rd1;
	cvta.to.global.u64  %rd2, %rd2;
	cvta.to.global.u64  %rd3, %rd3;

	// row = blockIdx.y * blockDim.y + threadIdx.y
	mov.u32         %r4, %ctaid.y;
	mov.u32         %r5, %ntid.y;
	mov.u32         %r6, %tid.y;
	mad.lo.s32      %r7, %r4, %r5, %r6;
	// col = blockIdx.x * blockDim.x + threadIdx.x
	mov.u32         %r8, %ctaid.x;
	mov.u32         %r9, %ntid.x;
	mov.u32         %r10, %tid.x;
	mad.lo.s32      %r11, %r8, %r9, %r10;

	setp.ge.s32     %p1, %r7, %r1;
	setp.ge.s32     %p2, %r11, %r3;
	or.pred         %p3, %p1, %p2;
	@%p3 bra        DONE;

	// acc = 0; i = 0
	mov.f64         %fd1, 0d0000000000000000;
	mov.u32         %r12, 0;
	// a index = row*k, b index = col
	mul.lo.s32      %r13, %r7, %r2;
	mov.u32         %r14, %r11;

LOOP:
	setp.ge.s32     %p1, %r12, %r2;
	@%p1 bra        STORE;
	mul.wide.s32    %rd4, %r13, 8;
	add.s64         %rd5, %rd2, %rd4;
	ld.global.f64   %fd2, [%rd5];
	mul.wide.s32    %rd6, %r14, 8;
	add.s64         %rd7, %rd3, %rd6;
	ld.global.f64   %fd3, [%rd7];
	fma.rn.f64      %fd1, %fd2, %fd3, %fd1;
	add.s32         %r12, %r12, 1;
	add.s32         %r13, %r13, 1;
	add.s32         %r14, %r14, %r3;
	bra             LOOP;

STORE:
	mad.lo.s32      %r15, %r7, %r3, %r11;
	mul.wide.s32    %rd8, %r15, 8;
	add.s64         %rd9, %rd1, %rd8;
	st.global.f64   [%rd9], %fd1;

DONE:
	ret;
}
`
